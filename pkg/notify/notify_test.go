package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/example/gourmet/pkg/config"
	"github.com/example/gourmet/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []Email
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func testOrder() (*models.Order, *models.User) {
	order := &models.Order{
		ID:          "o1",
		OrderNumber: "ORD-202405-0042",
		Items: []models.OrderItem{
			{Name: "Grilled Salmon", Price: 24.99, Quantity: 2},
		},
		Subtotal:      49.98,
		Tax:           4,
		Total:         53.98,
		PaymentMethod: models.PaymentCash,
	}
	user := &models.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	return order, user
}

func TestNotifierSendsConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	n, err := NewNotifier(mailer, zap.NewNop())
	require.NoError(t, err)
	defer n.Stop()

	order, user := testOrder()
	n.OrderPlaced(order, user)

	stats, err := n.Stats(time.Second)
	require.NoError(t, err)
	assert.Equal(t, Stats{Sent: 1}, stats)

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@example.com", mailer.sent[0].To)
	assert.Equal(t, "Order ORD-202405-0042 received", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Body, "2 x Grilled Salmon  $49.98")
	assert.Contains(t, mailer.sent[0].Body, "Total: $53.98")
}

func TestNotifierCountsFailures(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	n, err := NewNotifier(mailer, zap.NewNop())
	require.NoError(t, err)
	defer n.Stop()

	order, user := testOrder()
	n.OrderPlaced(order, user)
	n.OrderPlaced(order, user)

	stats, err := n.Stats(time.Second)
	require.NoError(t, err)
	assert.Equal(t, Stats{Failed: 2}, stats)
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("m-1")}, nil
}

func TestSESMailer(t *testing.T) {
	api := &fakeSES{}
	m := &SESMailer{client: api, sender: "orders@gourmet.local"}

	err := m.Send(context.Background(), Email{To: "alice@example.com", Subject: "Hi", Body: "Body"})
	require.NoError(t, err)
	assert.Equal(t, "orders@gourmet.local", aws.ToString(api.input.Source))
	assert.Equal(t, []string{"alice@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "Hi", aws.ToString(api.input.Message.Subject.Data))
	assert.Equal(t, "Body", aws.ToString(api.input.Message.Body.Text.Data))

	api.err = errors.New("throttled")
	assert.ErrorContains(t, m.Send(context.Background(), Email{To: "x@example.com"}), "throttled")
}

func TestNewMailerDefaultsToLog(t *testing.T) {
	m, err := NewMailer(context.Background(), &config.MailConfig{Provider: "log"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)
	assert.NoError(t, m.Send(context.Background(), Email{To: "a@example.com"}))
}

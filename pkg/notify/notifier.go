// Package notify sends order confirmations from a single actor so that
// request handlers never wait on the mail provider.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/gourmet/pkg/models"
	"go.uber.org/zap"
)

// Messages
type OrderPlaced struct {
	OrderID       string
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	Items         []models.OrderItem
	Subtotal      float64
	Tax           float64
	Total         float64
	PaymentMethod models.PaymentMethod
}

type GetStats struct{}

type Stats struct {
	Sent   int
	Failed int
}

// confirmationActor handles OrderPlaced messages one at a time.
type confirmationActor struct {
	mailer  Mailer
	timeout time.Duration
	logger  *zap.Logger
	stats   Stats
}

func (a *confirmationActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *OrderPlaced:
		sendCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
		err := a.mailer.Send(sendCtx, confirmationEmail(msg))
		cancel()

		if err != nil {
			a.stats.Failed++
			a.logger.Error("Failed to send order confirmation",
				zap.String("order_number", msg.OrderNumber),
				zap.Error(err))
			return
		}
		a.stats.Sent++
		a.logger.Info("Order confirmation sent",
			zap.String("order_number", msg.OrderNumber),
			zap.String("recipient", msg.CustomerEmail))

	case *GetStats:
		ctx.Respond(a.stats)

	case *actor.Started:
		a.logger.Info("Confirmation actor started")

	case *actor.Stopped:
		a.logger.Info("Confirmation actor stopped")
	}
}

func confirmationEmail(msg *OrderPlaced) Email {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order %s.\n\n", msg.CustomerName, msg.OrderNumber)
	for _, it := range msg.Items {
		fmt.Fprintf(&b, "  %d x %s  $%.2f\n", it.Quantity, it.Name, it.LineTotal())
	}
	fmt.Fprintf(&b, "\nSubtotal: $%.2f\nTax: $%.2f\nTotal: $%.2f\nPayment: %s\n",
		msg.Subtotal, msg.Tax, msg.Total, msg.PaymentMethod)

	return Email{
		To:      msg.CustomerEmail,
		Subject: fmt.Sprintf("Order %s received", msg.OrderNumber),
		Body:    b.String(),
	}
}

type Notifier struct {
	system *actor.ActorSystem
	pid    *actor.PID
	logger *zap.Logger
}

func NewNotifier(mailer Mailer, logger *zap.Logger) (*Notifier, error) {
	logger = logger.Named("notifier")
	system := actor.NewActorSystem()

	props := actor.PropsFromProducer(func() actor.Actor {
		return &confirmationActor{mailer: mailer, timeout: 10 * time.Second, logger: logger}
	})
	pid, err := system.Root.SpawnNamed(props, "order-confirmations")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn confirmation actor: %w", err)
	}

	return &Notifier{system: system, pid: pid, logger: logger}, nil
}

// OrderPlaced queues a confirmation for order and returns immediately.
func (n *Notifier) OrderPlaced(order *models.Order, user *models.User) {
	items := make([]models.OrderItem, len(order.Items))
	copy(items, order.Items)

	n.system.Root.Send(n.pid, &OrderPlaced{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerName:  user.Name,
		CustomerEmail: user.Email,
		Items:         items,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
	})
}

// Stats waits until earlier messages are processed and reports the counts.
func (n *Notifier) Stats(timeout time.Duration) (Stats, error) {
	result, err := n.system.Root.RequestFuture(n.pid, &GetStats{}, timeout).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get notifier stats: %w", err)
	}
	stats, ok := result.(Stats)
	if !ok {
		return Stats{}, fmt.Errorf("unexpected stats response %T", result)
	}
	return stats, nil
}

// Stop drains the mailbox and stops the actor.
func (n *Notifier) Stop() {
	if err := n.system.Root.PoisonFuture(n.pid).Wait(); err != nil {
		n.logger.Warn("Confirmation actor did not stop cleanly", zap.Error(err))
	}
}

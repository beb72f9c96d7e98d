package repository

import (
	"testing"
	"time"

	"github.com/example/gourmet/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrderDocument(t *testing.T) {
	user := primitive.NewObjectID()
	menuItem := primitive.NewObjectID()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	order := &models.Order{
		UserID:      user.Hex(),
		OrderNumber: "ORD-202405-1234",
		Items: []models.OrderItem{
			{MenuItemID: menuItem.Hex(), Name: "Soup", Price: 5, Quantity: 2},
			{MenuItemID: "not-an-object-id", Name: "Bread", Price: 1, Quantity: 1},
		},
		Subtotal:      11,
		Tax:           0.88,
		Total:         11.88,
		Status:        models.OrderStatusPending,
		PaymentMethod: models.PaymentCreditCard,
		CreatedAt:     at,
	}

	doc, err := newOrderDocument(order)
	require.NoError(t, err)
	assert.Equal(t, user, doc.User)
	require.NotNil(t, doc.Items[0].MenuItem)
	assert.Equal(t, menuItem, *doc.Items[0].MenuItem)
	assert.Nil(t, doc.Items[1].MenuItem)

	doc.ID = primitive.NewObjectID()
	back := doc.model()
	assert.Equal(t, doc.ID.Hex(), back.ID)
	assert.Equal(t, user.Hex(), back.UserID)
	assert.Equal(t, menuItem.Hex(), back.Items[0].MenuItemID)
	assert.Empty(t, back.Items[1].MenuItemID)
	assert.Equal(t, models.PaymentCreditCard, back.PaymentMethod)
	assert.Equal(t, at, back.CreatedAt)
}

func TestOrderDocumentBadOwner(t *testing.T) {
	_, err := newOrderDocument(&models.Order{UserID: "u1"})
	assert.Error(t, err)
}

func TestMenuItemDocumentAllergens(t *testing.T) {
	doc := newMenuItemDocument(&models.MenuItem{Name: "Water", Category: models.CategoryBeverages})
	assert.NotNil(t, doc.Allergens)
	assert.Equal(t, "Beverages", doc.Category)
}

func TestMenuItemDocumentDecodesStoredMenu(t *testing.T) {
	oid := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.M{
		"_id":             oid,
		"name":            "Bruschetta",
		"price":           7.99,
		"category":        "Appetizers",
		"popular":         true,
		"allergens":       bson.A{"Gluten"},
		"preparationTime": "10-15 min",
	})
	require.NoError(t, err)

	var doc menuItemDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))

	item := doc.model()
	assert.Equal(t, oid.Hex(), item.ID)
	assert.Equal(t, "10-15 min", item.PreparationTime)
	assert.Equal(t, []string{"Gluten"}, item.Allergens)

	again, err := bson.Marshal(newMenuItemDocument(&item))
	require.NoError(t, err)
	var back menuItemDocument
	require.NoError(t, bson.Unmarshal(again, &back))
	assert.Equal(t, "10-15 min", back.PreparationTime)
}

func TestObjectID(t *testing.T) {
	_, err := objectID("xyz")
	assert.ErrorIs(t, err, ErrNotFound)

	oid := primitive.NewObjectID()
	got, err := objectID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)
}

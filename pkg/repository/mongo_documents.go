package repository

import (
	"time"

	"github.com/example/gourmet/pkg/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Phone     string             `bson:"phone,omitempty"`
	Address   string             `bson:"address,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func newUserDocument(u *models.User) *userDocument {
	return &userDocument{
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		Phone:     u.Phone,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
	}
}

func (d *userDocument) model() *models.User {
	return &models.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		Phone:     d.Phone,
		Address:   d.Address,
		CreatedAt: d.CreatedAt,
	}
}

type menuItemDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Description     string             `bson:"description"`
	Price           float64            `bson:"price"`
	Image           string             `bson:"image"`
	Category        string             `bson:"category"`
	Popular         bool               `bson:"popular"`
	Allergens       []string           `bson:"allergens"`
	PreparationTime string             `bson:"preparationTime"`
	CreatedAt       time.Time          `bson:"createdAt"`
}

func newMenuItemDocument(item *models.MenuItem) *menuItemDocument {
	allergens := item.Allergens
	if allergens == nil {
		allergens = []string{}
	}
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &menuItemDocument{
		Name:            item.Name,
		Description:     item.Description,
		Price:           item.Price,
		Image:           item.Image,
		Category:        string(item.Category),
		Popular:         item.Popular,
		Allergens:       allergens,
		PreparationTime: item.PreparationTime,
		CreatedAt:       createdAt,
	}
}

func (d *menuItemDocument) model() models.MenuItem {
	return models.MenuItem{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Description:     d.Description,
		Price:           d.Price,
		Image:           d.Image,
		Category:        models.Category(d.Category),
		Popular:         d.Popular,
		Allergens:       d.Allergens,
		PreparationTime: d.PreparationTime,
		CreatedAt:       d.CreatedAt,
	}
}

type orderItemDocument struct {
	MenuItem *primitive.ObjectID `bson:"menuItem,omitempty"`
	Name     string              `bson:"name"`
	Price    float64             `bson:"price"`
	Quantity int                 `bson:"quantity"`
	Image    string              `bson:"image,omitempty"`
}

type orderDocument struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	User          primitive.ObjectID  `bson:"user"`
	OrderNumber   string              `bson:"orderNumber"`
	Items         []orderItemDocument `bson:"items"`
	Subtotal      float64             `bson:"subtotal"`
	Tax           float64             `bson:"tax"`
	Total         float64             `bson:"total"`
	Status        string              `bson:"status"`
	PaymentMethod string              `bson:"paymentMethod"`
	CreatedAt     time.Time           `bson:"createdAt"`
}

func newOrderDocument(o *models.Order) (*orderDocument, error) {
	user, err := primitive.ObjectIDFromHex(o.UserID)
	if err != nil {
		return nil, err
	}

	items := make([]orderItemDocument, 0, len(o.Items))
	for _, it := range o.Items {
		doc := orderItemDocument{
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Image:    it.Image,
		}
		// The menu reference is informational; ids from another backend are dropped.
		if oid, err := primitive.ObjectIDFromHex(it.MenuItemID); err == nil {
			doc.MenuItem = &oid
		}
		items = append(items, doc)
	}

	return &orderDocument{
		User:          user,
		OrderNumber:   o.OrderNumber,
		Items:         items,
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		CreatedAt:     o.CreatedAt,
	}, nil
}

func (d *orderDocument) model() models.Order {
	items := make([]models.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		item := models.OrderItem{
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Image:    it.Image,
		}
		if it.MenuItem != nil {
			item.MenuItemID = it.MenuItem.Hex()
		}
		items = append(items, item)
	}

	return models.Order{
		ID:            d.ID.Hex(),
		UserID:        d.User.Hex(),
		OrderNumber:   d.OrderNumber,
		Items:         items,
		Subtotal:      d.Subtotal,
		Tax:           d.Tax,
		Total:         d.Total,
		Status:        models.OrderStatus(d.Status),
		PaymentMethod: models.PaymentMethod(d.PaymentMethod),
		CreatedAt:     d.CreatedAt,
	}
}

package repository

import (
	"context"
	"fmt"

	"github.com/example/gourmet/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoRepository) CreateUser(ctx context.Context, user *models.User) error {
	doc := newUserDocument(user)
	doc.ID = primitive.NewObjectID()

	if _, err := m.database.Collection(usersCollection).InsertOne(ctx, doc); err != nil {
		return mongoError("create user", err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (m *MongoRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return m.findUser(ctx, bson.M{"_id": oid})
}

func (m *MongoRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findUser(ctx, bson.M{"email": email})
}

func (m *MongoRepository) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	err := m.database.Collection(usersCollection).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, mongoError("find user", err)
	}
	return doc.model(), nil
}

func (m *MongoRepository) UpdateUser(ctx context.Context, id string, update UserUpdate) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"name": update.Name, "email": update.Email}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err = m.database.Collection(usersCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).
		Decode(&doc)
	if err != nil {
		return nil, mongoError("update user", err)
	}
	return doc.model(), nil
}

func (m *MongoRepository) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := m.database.Collection(menuCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mongoError("list menu items", err)
	}
	defer cursor.Close(ctx)

	var docs []menuItemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mongoError("decode menu items", err)
	}

	items := make([]models.MenuItem, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].model())
	}
	return items, nil
}

func (m *MongoRepository) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc menuItemDocument
	if err := m.database.Collection(menuCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mongoError("find menu item", err)
	}
	item := doc.model()
	return &item, nil
}

func (m *MongoRepository) UpsertMenuItem(ctx context.Context, item *models.MenuItem) error {
	doc := newMenuItemDocument(item)
	set := bson.M{
		"description":     doc.Description,
		"price":           doc.Price,
		"image":           doc.Image,
		"category":        doc.Category,
		"popular":         doc.Popular,
		"allergens":       doc.Allergens,
		"preparationTime": doc.PreparationTime,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": doc.CreatedAt},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved menuItemDocument
	err := m.database.Collection(menuCollection).
		FindOneAndUpdate(ctx, bson.M{"name": doc.Name}, update, opts).
		Decode(&saved)
	if err != nil {
		return mongoError("upsert menu item", err)
	}
	item.ID = saved.ID.Hex()
	item.CreatedAt = saved.CreatedAt
	return nil
}

func (m *MongoRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	doc, err := newOrderDocument(order)
	if err != nil {
		return fmt.Errorf("malformed order owner %q: %w", order.UserID, err)
	}
	doc.ID = primitive.NewObjectID()

	if _, err := m.database.Collection(ordersCollection).InsertOne(ctx, doc); err != nil {
		return mongoError("create order", err)
	}
	order.ID = doc.ID.Hex()
	return nil
}

func (m *MongoRepository) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	oid, err := objectID(userID)
	if err != nil {
		return []models.Order{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := m.database.Collection(ordersCollection).Find(ctx, bson.M{"user": oid}, opts)
	if err != nil {
		return nil, mongoError("list orders", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mongoError("decode orders", err)
	}

	orders := make([]models.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].model())
	}
	return orders, nil
}

func (m *MongoRepository) GetOrderForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	owner, err := objectID(userID)
	if err != nil {
		return nil, err
	}

	var doc orderDocument
	err = m.database.Collection(ordersCollection).
		FindOne(ctx, bson.M{"_id": oid, "user": owner}).
		Decode(&doc)
	if err != nil {
		return nil, mongoError("find order", err)
	}
	order := doc.model()
	return &order, nil
}

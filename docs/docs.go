// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": ["http", "https"],
    "swagger": "2.0",
    "info": {
        "title": "Gourmet API",
        "description": "Restaurant ordering backend: accounts, menu, cart and orders.",
        "version": "1.0"
    },
    "basePath": "/",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/health": {"get": {"tags": ["health"], "summary": "Liveness and dependency check", "responses": {"200": {"description": "OK"}, "503": {"description": "Degraded"}}}},
        "/api/auth/register": {"post": {"tags": ["auth"], "summary": "Create an account", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/AuthResult"}}, "400": {"description": "Validation failed"}, "409": {"description": "User already exists"}}}},
        "/api/auth/login": {"post": {"tags": ["auth"], "summary": "Exchange credentials for a token", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResult"}}, "401": {"description": "Invalid credentials"}}}},
        "/api/users/me": {
            "get": {"tags": ["users"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}}, "401": {"description": "Unauthorized"}}},
            "put": {"tags": ["users"], "summary": "Update profile", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ProfileInput"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}}, "400": {"description": "Validation failed"}, "409": {"description": "Email already in use"}}}
        },
        "/api/menu": {"get": {"tags": ["menu"], "summary": "List menu items", "parameters": [{"in": "query", "name": "category", "type": "string"}, {"in": "query", "name": "search", "type": "string"}, {"in": "query", "name": "popular", "type": "boolean"}], "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/MenuItem"}}}}}},
        "/api/menu/{id}": {"get": {"tags": ["menu"], "summary": "One menu item", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/MenuItem"}}, "404": {"description": "Menu item not found"}}}},
        "/api/orders": {
            "post": {"tags": ["orders"], "summary": "Place an order", "security": [{"BearerAuth": []}], "parameters": [{"in": "header", "name": "Idempotency-Key", "type": "string"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateOrderInput"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Order"}}, "200": {"description": "Replayed", "schema": {"$ref": "#/definitions/Order"}}, "400": {"description": "Validation failed"}, "409": {"description": "Idempotency-Key in progress"}}},
            "get": {"tags": ["orders"], "summary": "Caller's orders, newest first", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Order"}}}}}
        },
        "/api/orders/{id}": {"get": {"tags": ["orders"], "summary": "One of the caller's orders", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Order"}}, "404": {"description": "Order not found"}}}},
        "/api/cart": {
            "get": {"tags": ["cart"], "summary": "Caller's cart", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Cart"}}}},
            "delete": {"tags": ["cart"], "summary": "Empty the cart", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Cart"}}}}
        },
        "/api/cart/items": {"post": {"tags": ["cart"], "summary": "Add a menu item", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/AddCartItem"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Cart"}}, "404": {"description": "Menu item not found"}}}},
        "/api/cart/items/{id}": {
            "put": {"tags": ["cart"], "summary": "Change quantity or instructions", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCartItem"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Cart"}}, "404": {"description": "Item not in cart"}}},
            "delete": {"tags": ["cart"], "summary": "Remove a line", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Cart"}}, "404": {"description": "Item not in cart"}}}
        }
    },
    "definitions": {
        "RegisterRequest": {"type": "object", "required": ["name", "email", "password"], "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string", "minLength": 6}}},
        "LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "ProfileInput": {"type": "object", "required": ["name", "email"], "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"}, "address": {"type": "string"}}},
        "AuthResult": {"type": "object", "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/User"}}},
        "User": {"type": "object", "properties": {"_id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"}, "address": {"type": "string"}, "createdAt": {"type": "string", "format": "date-time"}}},
        "MenuItem": {"type": "object", "properties": {"_id": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"}, "price": {"type": "number"}, "image": {"type": "string"}, "category": {"type": "string", "enum": ["Appetizers", "Main Course", "Seafood", "Pasta", "Vegetarian", "Desserts", "Beverages"]}, "popular": {"type": "boolean"}, "allergens": {"type": "array", "items": {"type": "string"}}, "preparationTime": {"type": "string"}, "createdAt": {"type": "string", "format": "date-time"}}},
        "OrderItem": {"type": "object", "properties": {"menuItemId": {"type": "string"}, "name": {"type": "string"}, "price": {"type": "number"}, "quantity": {"type": "integer", "minimum": 1}, "image": {"type": "string"}}},
        "CreateOrderInput": {"type": "object", "required": ["items", "paymentMethod"], "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/OrderItem"}}, "paymentMethod": {"type": "string", "enum": ["credit-card", "cash"]}, "subtotal": {"type": "number"}, "tax": {"type": "number"}, "total": {"type": "number"}}},
        "Order": {"type": "object", "properties": {"_id": {"type": "string"}, "user": {"type": "string"}, "orderNumber": {"type": "string"}, "items": {"type": "array", "items": {"$ref": "#/definitions/OrderItem"}}, "subtotal": {"type": "number"}, "tax": {"type": "number"}, "total": {"type": "number"}, "status": {"type": "string", "enum": ["Pending", "Preparing", "Ready for Pickup", "Out for Delivery", "Delivered", "Cancelled"]}, "paymentMethod": {"type": "string"}, "createdAt": {"type": "string", "format": "date-time"}}},
        "CartLine": {"type": "object", "properties": {"_id": {"type": "string"}, "name": {"type": "string"}, "price": {"type": "number"}, "image": {"type": "string"}, "quantity": {"type": "integer"}, "specialInstructions": {"type": "string"}}},
        "Cart": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/CartLine"}}, "count": {"type": "integer"}, "total": {"type": "number"}}},
        "AddCartItem": {"type": "object", "required": ["menuItemId"], "properties": {"menuItemId": {"type": "string"}, "quantity": {"type": "integer"}, "specialInstructions": {"type": "string"}}},
        "UpdateCartItem": {"type": "object", "properties": {"quantity": {"type": "integer"}, "specialInstructions": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Gourmet API",
	Description:      "Restaurant ordering backend: accounts, menu, cart and orders.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

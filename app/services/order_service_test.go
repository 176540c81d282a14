package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/pkg/database"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Customer{}, &models.Category{},
		&models.Product{}, &models.Variant{},
		&models.Order{}, &models.OrderItem{},
		&models.LoginAttempt{},
	))
	return db
}

func seedOrderFixtures(t *testing.T, db *gorm.DB) (models.Customer, models.Product, models.Product) {
	t.Helper()
	customer := models.Customer{Name: "Acme GmbH"}
	require.NoError(t, db.Create(&customer).Error)

	jacket := models.Product{Name: "Jacket", SKU: "JKT-1", Price: 50, Stock: 10, IsActive: true}
	gloves := models.Product{Name: "Gloves", SKU: "GLV-1", Price: 5, Stock: 3, IsActive: true}
	require.NoError(t, db.Create(&jacket).Error)
	require.NoError(t, db.Create(&gloves).Error)
	return customer, jacket, gloves
}

func TestOrderCreate(t *testing.T) {
	db := testDB(t)
	customer, jacket, gloves := seedOrderFixtures(t, db)
	svc := NewOrderService(db)

	order, err := svc.Create(context.Background(), 7, CreateOrderInput{
		CustomerID: customer.ID,
		Items: []OrderItemInput{
			{ProductID: jacket.ID, Quantity: 2},
			{ProductID: gloves.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusNew, order.Status)
	assert.Equal(t, uint(7), order.ManagerID)
	assert.Equal(t, customer.ID, order.CustomerID)
	assert.InDelta(t, 2*50.0+3*5.0, order.Total, 1e-9)
	assert.Len(t, order.Items, 2)

	// Each lookup needs its own dest: reusing one would carry the first
	// primary key into the second query's conditions.
	var jacketAfter, glovesAfter models.Product
	require.NoError(t, db.First(&jacketAfter, jacket.ID).Error)
	assert.Equal(t, 8, jacketAfter.Stock)
	require.NoError(t, db.First(&glovesAfter, gloves.ID).Error)
	assert.Equal(t, 0, glovesAfter.Stock)
}

func TestOrderCreateInsufficientStockRollsBack(t *testing.T) {
	db := testDB(t)
	customer, jacket, gloves := seedOrderFixtures(t, db)
	svc := NewOrderService(db)

	// Second line asks for more gloves than exist; the jacket decrement
	// from the first line must be rolled back with it.
	_, err := svc.Create(context.Background(), 7, CreateOrderInput{
		CustomerID: customer.ID,
		Items: []OrderItemInput{
			{ProductID: jacket.ID, Quantity: 1},
			{ProductID: gloves.ID, Quantity: 4},
		},
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Gloves", stockErr.ProductName)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, jacket.ID).Error)
	assert.Equal(t, 10, reloaded.Stock)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestOrderCreateLastUnitSingleWinner(t *testing.T) {
	db := testDB(t)
	customer, _, gloves := seedOrderFixtures(t, db)
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", gloves.ID).Update("stock", 1).Error)
	svc := NewOrderService(db)

	in := CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: gloves.ID, Quantity: 1}},
	}

	_, err := svc.Create(context.Background(), 1, in)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 2, in)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.EqualValues(t, 1, orders)
}

func TestOrderCreateUnknownProduct(t *testing.T) {
	db := testDB(t)
	customer, _, _ := seedOrderFixtures(t, db)
	svc := NewOrderService(db)

	_, err := svc.Create(context.Background(), 1, CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: 9999, Quantity: 1}},
	})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Entity)
}

func TestOrderCreateUnknownCustomer(t *testing.T) {
	db := testDB(t)
	_, jacket, _ := seedOrderFixtures(t, db)
	svc := NewOrderService(db)

	_, err := svc.Create(context.Background(), 1, CreateOrderInput{
		CustomerID: 4242,
		Items:      []OrderItemInput{{ProductID: jacket.ID, Quantity: 1}},
	})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "customer", nf.Entity)
}

func TestOrderCreateRejectsBadInput(t *testing.T) {
	db := testDB(t)
	customer, jacket, _ := seedOrderFixtures(t, db)
	svc := NewOrderService(db)

	_, err := svc.Create(context.Background(), 0, CreateOrderInput{})
	assert.True(t, errors.Is(err, ErrUnauthenticated))

	_, err = svc.Create(context.Background(), 1, CreateOrderInput{CustomerID: customer.ID})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "items")

	_, err = svc.Create(context.Background(), 1, CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: jacket.ID, Quantity: 0}},
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "items.0.quantity")
}

func TestOrderUpdateStatus(t *testing.T) {
	db := testDB(t)
	customer, jacket, _ := seedOrderFixtures(t, db)
	svc := NewOrderService(db)

	order, err := svc.Create(context.Background(), 1, CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: jacket.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), order.ID, "LOST")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = svc.UpdateStatus(context.Background(), 9999, models.OrderStatusShipped)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

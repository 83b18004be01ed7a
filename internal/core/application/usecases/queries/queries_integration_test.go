package queries_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	postgres_adapter "lectio/internal/adapters/out/postgres"
	"lectio/internal/adapters/out/postgres/materialrepo"
	"lectio/internal/adapters/out/postgres/orderrepo"
	"lectio/internal/adapters/out/postgres/userrepo"
	"lectio/internal/core/application/usecases/queries"
	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/material"
	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/domain/model/shipment"
	"lectio/internal/core/domain/model/user"
	"lectio/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type MockCourierClient struct {
	mock.Mock
}

func (m *MockCourierClient) CreateShipment(ctx context.Context, request shipment.Request) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}

func (m *MockCourierClient) GetStatus(ctx context.Context, trackingIDs []string) (json.RawMessage, error) {
	args := m.Called(ctx, trackingIDs)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *MockCourierClient) MarkReady(ctx context.Context, trackingIDs []string) error {
	return m.Called(ctx, trackingIDs).Error(0)
}

type QueriesIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB

	orders    *orderrepo.GormOrderRepository
	users     *userrepo.GormUserRepository
	materials *materialrepo.GormMaterialRepository
	courier   *MockCourierClient

	student *user.User
	other   *user.User
	admin   *user.User
	book    *material.Material
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(ctx, db))

	suite.orders = orderrepo.NewGormOrderRepository(db)
	suite.users = userrepo.NewGormUserRepository(db)
	suite.materials = materialrepo.NewGormMaterialRepository(db)
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE order_items, orders, materials, users").Error)
	suite.courier = &MockCourierClient{}

	var err error
	suite.student, err = user.NewUser(kernel.NewUUID(), "amina@univ-oran.dz", "Amina K.", "0555123456", "Oran")
	suite.Require().NoError(err)
	suite.other, err = user.NewUser(kernel.NewUUID(), "yacine@univ-oran.dz", "Yacine M.", "0555987654", "Oran")
	suite.Require().NoError(err)
	suite.admin, err = user.NewUser(kernel.NewUUID(), "staff@lectio.dz", "Staff", "", "", user.RoleAdmin)
	suite.Require().NoError(err)
	for _, u := range []*user.User{suite.student, suite.other, suite.admin} {
		suite.Require().NoError(suite.users.Add(ctx, u))
	}

	suite.book, err = material.NewMaterial(kernel.NewUUID(), "Analyse 1", material.TypeBook, decimal.RequireFromString("100.00"))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.materials.Add(ctx, suite.book))
}

func (suite *QueriesIntegrationTestSuite) seedOrder(delivery order.Delivery) *order.Order {
	books, err := order.NewItem(suite.book.ID(), 3, decimal.RequireFromString("100.00"))
	suite.Require().NoError(err)
	handout, err := order.NewItem(kernel.NewUUID(), 1, decimal.RequireFromString("50.00"))
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), suite.student.ID(), []order.Item{books, handout}, delivery, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders.Add(context.Background(), o))
	return o
}

func (suite *QueriesIntegrationTestSuite) shippedOrder(trackingID string) *order.Order {
	ctx := context.Background()
	delivery, err := order.NewDelivery(order.DeliveryTypeDelivery, "Cité universitaire, Oran", "0555123456")
	suite.Require().NoError(err)
	o := suite.seedOrder(delivery)

	suite.Require().NoError(o.Accept(suite.admin.ID()))
	suite.Require().NoError(o.MarkReady(suite.admin.ID(), time.Now().Add(time.Hour)))
	suite.Require().NoError(o.AttachShipment(trackingID))
	suite.Require().NoError(suite.orders.Update(ctx, o, order.Pending))
	return o
}

func (suite *QueriesIntegrationTestSuite) getOrder(orderID, callerID kernel.UUID) (queries.GetOrderQueryResponse, error) {
	query, err := queries.NewGetOrderQuery(orderID, callerID)
	suite.Require().NoError(err)
	return queries.NewGetOrderQueryHandler(suite.db).Handle(context.Background(), query)
}

func (suite *QueriesIntegrationTestSuite) deliveryStatus(orderID, callerID kernel.UUID) (queries.GetDeliveryStatusQueryResponse, error) {
	query, err := queries.NewGetDeliveryStatusQuery(orderID, callerID)
	suite.Require().NoError(err)
	handler := queries.NewGetDeliveryStatusQueryHandler(suite.db, suite.courier, zap.NewNop(), time.Second)
	return handler.Handle(context.Background(), query)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_OwnerSeesItemsAndTotal() {
	o := suite.seedOrder(order.NewPickupDelivery())

	resp, err := suite.getOrder(o.ID(), suite.student.ID())

	suite.Require().NoError(err)
	suite.Equal("pending", resp.Status)
	suite.Equal("pickup", resp.DeliveryType)
	suite.Nil(resp.AssignedAdminID)
	suite.True(resp.Total.Equal(decimal.RequireFromString("350.00")))
	suite.Require().Len(resp.Items, 2)
	suite.Equal("Analyse 1", resp.Items[0].Title)
	suite.True(resp.Items[0].Subtotal.Equal(decimal.RequireFromString("300.00")))
	suite.Empty(resp.Items[1].Title, "material missing from the catalogue")
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_StaffBypassesOwnership() {
	o := suite.shippedOrder("ORDER_A_202505010900")

	resp, err := suite.getOrder(o.ID(), suite.admin.ID())

	suite.Require().NoError(err)
	suite.Equal("out_for_delivery", resp.Status)
	suite.Equal("ORDER_A_202505010900", resp.TrackingID)
	suite.Require().NotNil(resp.AssignedAdminID)
	suite.True(resp.AssignedAdminID.IsEqual(suite.admin.ID()))
	suite.NotNil(resp.AppointmentDate)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_OtherStudentIsUnauthorized() {
	o := suite.seedOrder(order.NewPickupDelivery())

	_, err := suite.getOrder(o.ID(), suite.other.ID())

	suite.Require().ErrorIs(err, errs.ErrUnauthorized)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_UnknownCallerAndOrder() {
	o := suite.seedOrder(order.NewPickupDelivery())

	_, err := suite.getOrder(o.ID(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrUnauthorized)

	_, err = suite.getOrder(kernel.NewUUID(), suite.student.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestGetDeliveryStatus_WithoutTrackingSkipsCourier() {
	o := suite.seedOrder(order.NewPickupDelivery())

	resp, err := suite.deliveryStatus(o.ID(), suite.student.ID())

	suite.Require().NoError(err)
	suite.Equal("pending", resp.Status)
	suite.Empty(resp.TrackingID)
	suite.Nil(resp.Shipment)
	suite.False(resp.ShipmentUnavailable)
	suite.courier.AssertNotCalled(suite.T(), "GetStatus", mock.Anything, mock.Anything)
}

func (suite *QueriesIntegrationTestSuite) TestGetDeliveryStatus_ReturnsCourierDocument() {
	o := suite.shippedOrder("ORDER_B_202505010900")
	document := json.RawMessage(`{"Colis":[{"Tracking":"ORDER_B_202505010900","Situation":"En livraison"}]}`)
	suite.courier.On("GetStatus", mock.Anything, []string{"ORDER_B_202505010900"}).Return(document, nil).Once()

	resp, err := suite.deliveryStatus(o.ID(), suite.student.ID())

	suite.Require().NoError(err)
	suite.Equal("out_for_delivery", resp.Status)
	suite.JSONEq(string(document), string(resp.Shipment))
	suite.False(resp.ShipmentUnavailable)
	suite.courier.AssertExpectations(suite.T())
}

func (suite *QueriesIntegrationTestSuite) TestGetDeliveryStatus_CourierFailureDegrades() {
	o := suite.shippedOrder("ORDER_C_202505010900")
	suite.courier.On("GetStatus", mock.Anything, mock.Anything).
		Return(nil, errs.NewCourierFailureError("lire", 502)).Once()

	resp, err := suite.deliveryStatus(o.ID(), suite.student.ID())

	suite.Require().NoError(err)
	suite.Equal("out_for_delivery", resp.Status)
	suite.Equal("ORDER_C_202505010900", resp.TrackingID)
	suite.True(resp.ShipmentUnavailable)
	suite.Nil(resp.Shipment)
}

func (suite *QueriesIntegrationTestSuite) TestGetDeliveryStatus_OwnershipChecked() {
	o := suite.shippedOrder("ORDER_D_202505010900")

	_, err := suite.deliveryStatus(o.ID(), suite.other.ID())

	suite.Require().ErrorIs(err, errs.ErrUnauthorized)
	suite.courier.AssertNotCalled(suite.T(), "GetStatus", mock.Anything, mock.Anything)
}

func (suite *QueriesIntegrationTestSuite) TestGetDeliveryStatus_BlockedCaller() {
	o := suite.seedOrder(order.NewPickupDelivery())
	suite.Require().NoError(suite.db.Exec("UPDATE users SET blocked = true WHERE id = ?", suite.student.ID().Bytes()).Error)

	_, err := suite.deliveryStatus(o.ID(), suite.student.ID())

	suite.Require().ErrorIs(err, errs.ErrUnauthorized)
}

func (suite *QueriesIntegrationTestSuite) TestQueryConstructors_RejectZeroIDs() {
	_, err := queries.NewGetOrderQuery(kernel.UUID{}, suite.student.ID())
	suite.Require().Error(err)

	_, err = queries.NewGetDeliveryStatusQuery(kernel.NewUUID(), kernel.UUID{})
	suite.Require().Error(err)

	_, err = queries.NewGetOrderQueryHandler(suite.db).Handle(context.Background(), queries.GetOrderQuery{})
	suite.Require().ErrorIs(err, queries.ErrGetOrderQueryIsNotConstructed)
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesIntegrationTestSuite))
}

// Package ordersvc - Test tra cứu đơn hàng trên store giả lập.
package ordersvc

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "clone_studio/internal/api/base/service"
	ordermodels "clone_studio/internal/api/order/models"
)

// fakeOrderStore giả lập store Mongo, ghi lại filter của từng lần tra cứu
type fakeOrderStore struct {
	basesvc.BaseServiceMongo[ordermodels.Order]

	orders      []ordermodels.Order
	lastFilter  bson.M
	findFilters []bson.M
}

func (f *fakeOrderStore) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (ordermodels.Order, error) {
	f.lastFilter = filter.(bson.M)
	if len(f.orders) == 0 {
		return ordermodels.Order{}, nil
	}
	return f.orders[0], nil
}

func (f *fakeOrderStore) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]ordermodels.Order, error) {
	f.findFilters = append(f.findFilters, filter.(bson.M))
	return f.orders, nil
}

func TestFindBySessionID_LocTheoStripeSessionId(t *testing.T) {
	store := &fakeOrderStore{
		orders: []ordermodels.Order{{
			ID:              primitive.NewObjectID(),
			StripeSessionID: "cs_test_123",
		}},
	}
	service := &OrderService{BaseServiceMongo: store}

	order, err := service.FindBySessionID(context.Background(), "cs_test_123")
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if store.lastFilter["stripeSessionId"] != "cs_test_123" {
		t.Errorf("filter phải khóa theo stripeSessionId, nhận %v", store.lastFilter)
	}
	if order.StripeSessionID != "cs_test_123" {
		t.Errorf("đơn hàng trả về sai: %+v", order)
	}
}

func TestSummariesByHexIDs_BoQuaHexHong(t *testing.T) {
	order := ordermodels.Order{
		ID: primitive.NewObjectID(),
		Buyer: ordermodels.OrderBuyer{
			Email: "buyer@example.com",
			Phone: "0900000000",
		},
		CreatedAt: 1700000000000,
	}
	store := &fakeOrderStore{orders: []ordermodels.Order{order}}
	service := &OrderService{BaseServiceMongo: store}

	summaries, err := service.SummariesByHexIDs(context.Background(), []string{order.ID.Hex(), "not-a-hex"})
	if err != nil {
		t.Fatalf("hex hỏng không được fail cả trang: %v", err)
	}
	summary, ok := summaries[order.ID.Hex()]
	if !ok {
		t.Fatal("thiếu tóm tắt cho đơn hàng hợp lệ")
	}
	if summary.Buyer.Email != order.Buyer.Email || summary.CreatedAt != order.CreatedAt {
		t.Errorf("tóm tắt sai: %+v", summary)
	}

	in := store.findFilters[0]["_id"].(bson.M)["$in"].([]primitive.ObjectID)
	if len(in) != 1 {
		t.Errorf("hex hỏng phải bị loại khỏi $in, nhận %d id", len(in))
	}
}

func TestSummariesByHexIDs_RongKhongQuery(t *testing.T) {
	store := &fakeOrderStore{}
	service := &OrderService{BaseServiceMongo: store}

	summaries, err := service.SummariesByHexIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("không có id thì map phải rỗng, nhận %d", len(summaries))
	}
	if len(store.findFilters) != 0 {
		t.Errorf("không có id thì không được query, nhận %d lần", len(store.findFilters))
	}
}

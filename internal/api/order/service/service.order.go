// Package ordersvc chứa service cho domain Order.
// File: service.order.go
package ordersvc

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "clone_studio/internal/api/base/service"
	orderdto "clone_studio/internal/api/order/dto"
	ordermodels "clone_studio/internal/api/order/models"
	"clone_studio/internal/common"
	"clone_studio/internal/global"
)

// OrderService là cấu trúc chứa các phương thức liên quan đến đơn hàng.
// Core chỉ đọc đơn hàng và sửa thông tin liên hệ buyer; paymentStatus do cổng thanh toán quyết định.
// Store là interface để test có thể thay bằng fake không cần MongoDB.
type OrderService struct {
	basesvc.BaseServiceMongo[ordermodels.Order]
}

// NewOrderService tạo mới OrderService
func NewOrderService() (*OrderService, error) {
	orderCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Orders)
	if !exist {
		return nil, fmt.Errorf("failed to get orders collection: %v", common.ErrNotFound)
	}

	return &OrderService{
		BaseServiceMongo: basesvc.NewBaseServiceMongo[ordermodels.Order](orderCollection),
	}, nil
}

// FindBySessionID tìm đơn hàng theo ID phiên checkout Stripe
func (s *OrderService) FindBySessionID(ctx context.Context, sessionID string) (ordermodels.Order, error) {
	return s.FindOne(ctx, bson.M{"stripeSessionId": sessionID}, nil)
}

// UpdateBuyer sửa thông tin liên hệ người mua. Chỉ set các field có giá trị,
// không đụng vào paymentStatus hay các field khác của đơn hàng.
func (s *OrderService) UpdateBuyer(ctx context.Context, orderID primitive.ObjectID, input orderdto.UpdateBuyerInput) (ordermodels.Order, error) {
	set := bson.M{}
	if input.Email != "" {
		set["buyer.email"] = input.Email
	}
	if input.Phone != "" {
		set["buyer.phone"] = input.Phone
	}
	if input.Name != "" {
		set["buyer.name"] = input.Name
	}

	if len(set) == 0 {
		// Không có gì để sửa, trả về đơn hàng hiện tại
		return s.FindOneById(ctx, orderID)
	}

	return s.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": set}, nil)
}

// SummariesByHexIDs tra tóm tắt đơn hàng (buyer, createdAt) cho một trang
// submission, trả về map theo hex ID. Hex ID hỏng bị bỏ qua thay vì fail cả trang.
func (s *OrderService) SummariesByHexIDs(ctx context.Context, hexIDs []string) (map[string]orderdto.OrderSummary, error) {
	result := make(map[string]orderdto.OrderSummary, len(hexIDs))
	if len(hexIDs) == 0 {
		return result, nil
	}

	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, hexID := range hexIDs {
		id, err := primitive.ObjectIDFromHex(hexID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return result, nil
	}

	orders, err := s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		result[order.ID.Hex()] = orderdto.OrderSummary{
			Buyer:     order.Buyer,
			CreatedAt: order.CreatedAt,
		}
	}
	return result, nil
}

// SearchOrderIDsByBuyer tìm ID các đơn hàng có buyer khớp chuỗi tìm kiếm
// (so khớp không phân biệt hoa thường trên email, số điện thoại và tên).
// Trả về danh sách hex ID để lọc submission theo orderId.
func (s *OrderService) SearchOrderIDsByBuyer(ctx context.Context, search string) ([]string, error) {
	if search == "" {
		return []string{}, nil
	}

	// Escape chuỗi tìm kiếm để tránh regex injection
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	filter := bson.M{
		"$or": []bson.M{
			{"buyer.email": pattern},
			{"buyer.phone": pattern},
			{"buyer.name": pattern},
		},
	}

	// Chỉ cần _id
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	orders, err := s.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID.Hex())
	}
	return ids, nil
}

package services

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"go-grocery/models"
)

// DashboardService runs the read-only aggregation queries behind the admin
// dashboard.
type DashboardService struct {
	orders    *mongo.Collection
	customers *mongo.Collection
	partners  *mongo.Collection
}

// NewDashboardService creates a DashboardService over the relevant
// collections.
func NewDashboardService(db *mongo.Database) *DashboardService {
	return &DashboardService{
		orders:    db.Collection("orders"),
		customers: db.Collection("customers"),
		partners:  db.Collection("deliverypartners"),
	}
}

// DayPerformance is one day of the 7-day sales chart.
type DayPerformance struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	TotalOrders           int64            `json:"totalOrders"`
	TotalRevenue          float64          `json:"totalRevenue"`
	TotalCustomers        int64            `json:"totalCustomers"`
	TotalDeliveryPartners int64            `json:"totalDeliveryPartners"`
	SalesPerformance      []DayPerformance `json:"salesPerformance"`
}

// Stats computes order/revenue/customer/partner totals and the last seven
// days of sales, with missing days zero-filled. Cancelled orders are
// excluded from revenue.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	totalOrders, err := s.orders.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	totalRevenue, err := s.totalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	totalCustomers, err := s.customers.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}

	totalPartners, err := s.partners.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}

	performance, err := s.salesPerformance(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalOrders:           totalOrders,
		TotalRevenue:          math.Round(totalRevenue),
		TotalCustomers:        totalCustomers,
		TotalDeliveryPartners: totalPartners,
		SalesPerformance:      performance,
	}, nil
}

func (s *DashboardService) totalRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"orderStatus": bson.M{"$ne": models.StatusCancelled}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "totalRevenue": bson.M{"$sum": "$totalAmount"}}}},
	}

	cursor, err := s.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalRevenue float64 `bson:"totalRevenue"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].TotalRevenue, nil
}

func (s *DashboardService) salesPerformance(ctx context.Context) ([]DayPerformance, error) {
	now := time.Now()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	startOfWindow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"orderStatus": bson.M{"$ne": models.StatusCancelled},
			"createdAt":   bson.M{"$gte": startOfWindow, "$lte": endOfToday},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}},
			"revenue": bson.M{"$sum": "$totalAmount"},
			"orders":  bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := s.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Date    string  `bson:"_id"`
		Revenue float64 `bson:"revenue"`
		Orders  int     `bson:"orders"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	byDate := make(map[string]DayPerformance, len(rows))
	for _, row := range rows {
		byDate[row.Date] = DayPerformance{Date: row.Date, Revenue: row.Revenue, Orders: row.Orders}
	}

	// Zero-fill the missing days so the chart always has seven points
	performance := make([]DayPerformance, 0, 7)
	for i := 6; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		if day, ok := byDate[date]; ok {
			performance = append(performance, day)
		} else {
			performance = append(performance, DayPerformance{Date: date})
		}
	}
	return performance, nil
}

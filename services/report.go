package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-grocery/models"
)

// ReportService builds the multi-sheet Excel sales report.
type ReportService struct {
	orders    *mongo.Collection
	customers *mongo.Collection
	products  *mongo.Collection
	partners  *mongo.Collection
}

// NewReportService creates a ReportService over the relevant collections.
func NewReportService(db *mongo.Database) *ReportService {
	return &ReportService{
		orders:    db.Collection("orders"),
		customers: db.Collection("customers"),
		products:  db.Collection("products"),
		partners:  db.Collection("deliverypartners"),
	}
}

// SalesReport builds a workbook with Orders, Revenue Summary, Products,
// Customers, Delivery Partners and Date-wise Sales sheets. The caller owns
// closing the file.
func (s *ReportService) SalesReport(ctx context.Context) (*excelize.File, error) {
	sortNewest := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var orders []models.Order
	cursor, err := s.orders.Find(ctx, bson.M{}, sortNewest)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	var customers []models.Customer
	cursor, err = s.customers.Find(ctx, bson.M{}, sortNewest)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}

	var products []models.Product
	cursor, err = s.products.Find(ctx, bson.M{}, sortNewest)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	var partners []models.DeliveryPartner
	cursor, err = s.partners.Find(ctx, bson.M{}, sortNewest)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &partners); err != nil {
		return nil, err
	}

	customersByID := make(map[primitive.ObjectID]models.Customer, len(customers))
	for _, c := range customers {
		customersByID[c.ID] = c
	}
	partnersByID := make(map[primitive.ObjectID]models.DeliveryPartner, len(partners))
	for _, p := range partners {
		partnersByID[p.ID] = p
	}

	f := excelize.NewFile()
	if err := s.ordersSheet(f, orders, customersByID, partnersByID); err != nil {
		return nil, err
	}
	if err := s.revenueSheet(f, orders); err != nil {
		return nil, err
	}
	if err := s.productsSheet(f, products); err != nil {
		return nil, err
	}
	if err := s.customersSheet(f, customers, orders); err != nil {
		return nil, err
	}
	if err := s.partnersSheet(f, partners); err != nil {
		return nil, err
	}
	if err := s.dateWiseSalesSheet(f, orders); err != nil {
		return nil, err
	}
	return f, nil
}

func headerStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

func addSheet(f *excelize.File, name string, headers []string, color string) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &row); err != nil {
		return err
	}

	style, err := headerStyle(f, color)
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(name, "A1", last, style); err != nil {
		return err
	}

	// Freeze the header row
	return f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (s *ReportService) ordersSheet(f *excelize.File, orders []models.Order, customers map[primitive.ObjectID]models.Customer, partners map[primitive.ObjectID]models.DeliveryPartner) error {
	const sheet = "Orders"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{
		"Order ID", "Customer Name", "Phone", "Email", "Order Date",
		"Status", "Payment Method", "Payment Status", "Total Amount",
		"Items Count", "Delivery Partner",
	}
	if err := addSheet(f, sheet, headers, "4472C4"); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "K", 20); err != nil {
		return err
	}

	for i, order := range orders {
		customerName, phone, email := "N/A", "N/A", "N/A"
		if c, ok := customers[order.Customer]; ok {
			customerName, phone, email = c.Name, c.Phone, c.Email
		}
		partnerName := "Not Assigned"
		if order.DeliveryPartner != nil {
			if p, ok := partners[*order.DeliveryPartner]; ok {
				partnerName = p.Name
			}
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{
			order.ID.Hex(), customerName, phone, email,
			order.CreatedAt.Format("02-Jan-2006 03:04 PM"),
			order.OrderStatus, order.PaymentMethod, order.PaymentStatus,
			order.TotalAmount, len(order.Items), partnerName,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReportService) revenueSheet(f *excelize.File, orders []models.Order) error {
	const sheet = "Revenue Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	var (
		totalRevenue, codRevenue, onlineRevenue float64
		delivered, cancelled, cod, online       int
	)
	for _, order := range orders {
		switch order.OrderStatus {
		case models.StatusDelivered:
			delivered++
		case models.StatusCancelled:
			cancelled++
		}
		switch order.PaymentMethod {
		case models.PaymentCOD:
			cod++
		case models.PaymentOnline:
			online++
		}
		if order.OrderStatus != models.StatusCancelled {
			totalRevenue += order.TotalAmount
			switch order.PaymentMethod {
			case models.PaymentCOD:
				codRevenue += order.TotalAmount
			case models.PaymentOnline:
				onlineRevenue += order.TotalAmount
			}
		}
	}

	avgOrderValue := 0.0
	if len(orders) > 0 {
		avgOrderValue = totalRevenue / float64(len(orders))
	}

	rows := [][]interface{}{
		{"REVENUE SUMMARY REPORT"},
		{},
		{"Metric", "Value"},
		{"Total Revenue (Excl. Cancelled)", fmt.Sprintf("%.2f", totalRevenue)},
		{"Total Orders", len(orders)},
		{"Delivered Orders", delivered},
		{"Cancelled Orders", cancelled},
		{"Average Order Value", fmt.Sprintf("%.2f", avgOrderValue)},
		{},
		{"Payment Method Breakdown", ""},
		{"COD Orders", cod},
		{"Online Orders", online},
		{"COD Revenue", fmt.Sprintf("%.2f", codRevenue)},
		{"Online Revenue", fmt.Sprintf("%.2f", onlineRevenue)},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16, Color: "4472C4"}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 35); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 25)
}

func (s *ReportService) productsSheet(f *excelize.File, products []models.Product) error {
	const sheet = "Products"
	headers := []string{
		"Product ID", "Name", "Brand", "Category", "MRP", "Offer Price",
		"Stock", "Unit Type", "Weight/Volume", "Status",
	}
	if err := addSheet(f, sheet, headers, "70AD47"); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "J", 18); err != nil {
		return err
	}

	for i, product := range products {
		status := "Inactive"
		if product.IsActive {
			status = "Active"
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{
			product.ID.Hex(), product.Name, product.Brand, product.Category,
			product.MRP, product.OfferPrice, product.Stock,
			product.UnitType, product.PerUnitWeightVolume, status,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReportService) customersSheet(f *excelize.File, customers []models.Customer, orders []models.Order) error {
	const sheet = "Customers"
	headers := []string{
		"Customer ID", "Name", "Email", "Phone", "Registration Date",
		"Total Orders", "Total Spent", "Addresses", "Status",
	}
	if err := addSheet(f, sheet, headers, "FFC000"); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "I", 20); err != nil {
		return err
	}

	ordersByCustomer := make(map[primitive.ObjectID][]models.Order)
	for _, order := range orders {
		ordersByCustomer[order.Customer] = append(ordersByCustomer[order.Customer], order)
	}

	for i, customer := range customers {
		customerOrders := ordersByCustomer[customer.ID]
		totalSpent := 0.0
		for _, order := range customerOrders {
			if order.OrderStatus != models.StatusCancelled {
				totalSpent += order.TotalAmount
			}
		}
		status := "Inactive"
		if customer.IsActive {
			status = "Active"
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{
			customer.ID.Hex(), customer.Name, customer.Email, customer.Phone,
			customer.CreatedAt.Format("02-Jan-2006"),
			len(customerOrders), totalSpent, len(customer.Addresses), status,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReportService) partnersSheet(f *excelize.File, partners []models.DeliveryPartner) error {
	const sheet = "Delivery Partners"
	headers := []string{
		"Partner ID", "Name", "Email", "Phone", "Vehicle Type",
		"Vehicle Number", "License Number", "Status", "Active",
	}
	if err := addSheet(f, sheet, headers, "5B9BD5"); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "I", 20); err != nil {
		return err
	}

	for i, partner := range partners {
		active := "No"
		if partner.IsActive {
			active = "Yes"
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{
			partner.ID.Hex(), partner.Name, partner.Email, partner.Phone,
			partner.VehicleType, partner.VehicleNumber, partner.LicenseNumber,
			partner.Status, active,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReportService) dateWiseSalesSheet(f *excelize.File, orders []models.Order) error {
	const sheet = "Date-wise Sales"
	headers := []string{"Date", "Orders Count", "Revenue", "Avg Order Value"}
	if err := addSheet(f, sheet, headers, "ED7D31"); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "D", 18); err != nil {
		return err
	}

	type daily struct {
		count   int
		revenue float64
	}
	byDate := make(map[string]*daily)
	for _, order := range orders {
		date := order.CreatedAt.Format("2006-01-02")
		day, ok := byDate[date]
		if !ok {
			day = &daily{}
			byDate[date] = day
		}
		day.count++
		if order.OrderStatus != models.StatusCancelled {
			day.revenue += order.TotalAmount
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	for i, date := range dates {
		day := byDate[date]
		avg := 0.0
		if day.count > 0 {
			avg = day.revenue / float64(day.count)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{date, day.count, day.revenue, avg}); err != nil {
			return err
		}
	}
	return nil
}

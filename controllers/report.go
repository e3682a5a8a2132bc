package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"go-grocery/services"
	"go-grocery/utils"
)

// ReportController serves downloadable admin reports
type ReportController struct {
	Reports *services.ReportService
}

// NewReportController creates a new ReportController
func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{Reports: reports}
}

// DownloadSalesReport streams the sales workbook as an xlsx attachment
func (rc *ReportController) DownloadSalesReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	f, err := rc.Reports.SalesReport(ctx)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	filename := fmt.Sprintf("Sales_Report_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := f.Write(w); err != nil {
		log.Printf("Failed to write sales report: %v", err)
	}
}

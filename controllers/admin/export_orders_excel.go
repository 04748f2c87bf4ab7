package adminController

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/yoruwear-api/controllers/order"
	"github.com/junaidrashid-git/yoruwear-api/models"
	"github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"
)

var orderHeaders = []string{
	"ID", "OrderNumber", "Status", "CustomerName", "CustomerEmail", "Phone",
	"StreetAddress", "City", "PostalCode", "Country",
	"DeliveryMethod", "PaymentMethod", "Subtotal", "DeliveryCost", "Total",
	"Items", "CreatedAt",
}

// WriteOrdersWorkbook writes one row per order, with items summarised as
// "2x Name (M); 1x Other".
func WriteOrdersWorkbook(w io.Writer, orders []models.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range orderHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(o.OrderNumber)
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(o.Contact.Name)
		row.AddCell().SetValue(o.Contact.Email)
		row.AddCell().SetValue(o.Contact.Phone)
		row.AddCell().SetValue(o.Address.StreetAddress)
		row.AddCell().SetValue(o.Address.City)
		row.AddCell().SetValue(o.Address.PostalCode)
		row.AddCell().SetValue(o.Address.Country)
		row.AddCell().SetValue(o.Delivery.Method)
		row.AddCell().SetValue(o.Payment.Method)
		row.AddCell().SetFloat(o.Subtotal.InexactFloat64())
		row.AddCell().SetFloat(o.Delivery.Cost.InexactFloat64())
		row.AddCell().SetFloat(o.Total.InexactFloat64())

		var items []string
		for _, it := range o.Items {
			line := strings.TrimSpace(it.ProductName)
			if it.Size != "" {
				line += " (" + it.Size + ")"
			}
			items = append(items, strconv.Itoa(it.Quantity)+"x "+line)
		}
		row.AddCell().SetValue(strings.Join(items, "; "))
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return file.Write(w)
}

// GET /api/admin/orders/export
func ExportOrdersToExcel(orders *orderControllers.Service, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := orders.All(c.Request.Context())
		if err != nil {
			log.WithError(err).Error("export orders failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := WriteOrdersWorkbook(c.Writer, all); err != nil {
			log.WithError(err).Error("write orders workbook failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}

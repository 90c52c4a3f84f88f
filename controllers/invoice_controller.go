// controllers/invoice_controller.go
package controllers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"net/http"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harisapp/haris_backend/models"
	"github.com/harisapp/haris_backend/services"
)

// InvoiceController exposes invoice reads and admin status updates. Invoice
// creation has no endpoint; invoices only come from completed requests.
type InvoiceController struct {
	invoices *services.InvoiceService
}

func NewInvoiceController(invoices *services.InvoiceService) *InvoiceController {
	return &InvoiceController{invoices: invoices}
}

// List handles GET /api/invoices
func (ic *InvoiceController) List(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var userID *primitive.ObjectID
	if raw := c.QueryParam("userId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid userId filter",
			})
		}
		userID = &id
	}

	invoices, err := ic.invoices.List(c.Request().Context(), actor, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Invoices retrieved",
		Data: map[string]interface{}{
			"invoices": invoices,
			"count":    len(invoices),
		},
	})
}

// Get handles GET /api/invoices/:id, returning the invoice together with a QR
// code that encodes its verification payload
func (ic *InvoiceController) Get(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid invoice ID",
		})
	}

	invoice, err := ic.invoices.Get(c.Request().Context(), actor, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	qrCode, err := generateInvoiceQR(invoice)
	if err != nil {
		qrCode = ""
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Invoice retrieved",
		Data: map[string]interface{}{
			"invoice": invoice,
			"qrCode":  qrCode,
		},
	})
}

// UpdateStatus handles PUT /api/admin/invoices/:id/status
func (ic *InvoiceController) UpdateStatus(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid invoice ID",
		})
	}

	var req models.InvoiceStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Status is required",
		})
	}

	invoice, err := ic.invoices.UpdateStatus(c.Request().Context(), actor, id, req.Status)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Invoice status updated",
		Data:    invoice,
	})
}

// generateInvoiceQR encodes the invoice's verification payload as a PNG QR
// code and returns it as a data URI
func generateInvoiceQR(invoice *models.Invoice) (string, error) {
	content := fmt.Sprintf("%s|%s|%.2f|%s",
		invoice.InvoiceNumber,
		invoice.ServiceRequestID.Hex(),
		invoice.Total,
		invoice.IssuedAt.Format("2006-01-02"),
	)

	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return "", err
	}

	qrCode, err = barcode.Scale(qrCode, 300, 300)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

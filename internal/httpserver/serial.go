package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hugelabz/internal/service"
	"github.com/Skotchmaster/hugelabz/internal/transport"
	"github.com/Skotchmaster/hugelabz/pkg/logging"
	middleware "github.com/Skotchmaster/hugelabz/pkg/middleware/auth"
)

const notFoundMessage = "Serial number not found"

type SerialHTTP struct {
	Svc *service.SerialService
}

// Verify is open to anonymous callers. The verifying user is the token
// subject; a userId in the body must name that same user.
func (h *SerialHTTP) Verify(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "serial.verify")

	var req transport.VerifyRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("verify_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var userID *uuid.UUID
	if id, ok := middleware.UserID(c); ok {
		userID = &id
	}

	if req.UserID != nil && *req.UserID != "" {
		if userID == nil {
			l.Warn("verify_failed", "status", 401, "reason", "userId without a session")
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		claimed, err := uuid.Parse(*req.UserID)
		if err != nil || claimed != *userID {
			l.Warn("verify_failed", "status", 403, "reason", "userId does not match session")
			return echo.NewHTTPError(http.StatusForbidden, "userId does not match the authenticated user")
		}
	}

	res, err := h.Svc.Verify(ctx, req.Code, userID)
	if err != nil {
		return serviceError(l, "verify_failed", err, http.StatusConflict)
	}

	if !res.Success {
		return c.JSON(http.StatusNotFound, transport.VerifyResponse{Success: false, Error: notFoundMessage})
	}

	return c.JSON(http.StatusOK, transport.VerifyResponse{
		Success:         true,
		Serial:          res.Serial,
		Product:         res.Product,
		AlreadyVerified: res.AlreadyVerified,
	})
}

func (h *SerialHTTP) ListSerials(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "serial.list")

	items, err := h.Svc.ListSerials(ctx)
	if err != nil {
		l.Error("list_serials_error", "status", 500, "reason", "cannot list serials", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list serials")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SerialHTTP) ExportSerials(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "serial.export")

	items, err := h.Svc.ListSerials(ctx)
	if err != nil {
		l.Error("export_serials_error", "status", 500, "reason", "cannot list serials", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list serials")
	}

	rows := make([]transport.SerialCSVRow, 0, len(items))
	for _, s := range items {
		row := transport.SerialCSVRow{
			Code:      s.Code,
			Verified:  s.IsVerified,
			CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		}
		if s.Product != nil {
			row.Product = s.Product.Name
		}
		if s.VerifiedAt != nil {
			row.VerifiedAt = s.VerifiedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, row)
	}

	body, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		l.Error("export_serials_error", "status", 500, "reason", "cannot encode csv", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot encode csv")
	}

	filename := fmt.Sprintf("serials-%s.csv", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", body)
}

func (h *SerialHTTP) AddSerial(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "serial.add")

	var req transport.CreateSerialRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_serial_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		l.Warn("add_serial_failed", "status", 400, "reason", "productId not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "productId not a uuid")
	}

	serial, err := h.Svc.AddSerial(ctx, req.Code, productID)
	if err != nil {
		return serviceError(l, "add_serial_failed", err, http.StatusConflict)
	}

	l.Info("add_serial_success", "serial_id", serial.ID)
	return c.JSON(http.StatusCreated, serial)
}

func (h *SerialHTTP) BulkAddSerials(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "serial.bulk_add")

	var req transport.BulkSerialRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bulk_add_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		l.Warn("bulk_add_failed", "status", 400, "reason", "productId not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "productId not a uuid")
	}

	codes := append(req.Codes, service.ParseCodes(req.Text)...)
	res, err := h.Svc.BulkAddSerials(ctx, codes, productID)
	if err != nil {
		return serviceError(l, "bulk_add_failed", err, http.StatusConflict)
	}

	l.Info("bulk_add_success", "added", res.Added, "skipped", res.Skipped)
	return c.JSON(http.StatusOK, transport.BulkSerialResponse{Added: res.Added, Skipped: res.Skipped})
}

func (h *SerialHTTP) GenerateCode(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "serial.generate")

	code, err := service.GenerateCode()
	if err != nil {
		l.Error("generate_code_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot generate code")
	}
	return c.JSON(http.StatusOK, transport.GenerateResponse{Code: code})
}

func (h *SerialHTTP) DeleteSerial(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "serial.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_serial_failed", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}
	if err := h.Svc.DeleteSerial(ctx, id); err != nil {
		return serviceError(l, "delete_serial_failed", err, http.StatusConflict)
	}
	return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true})
}

package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/product-inventory-admin/internal/http/response"
	"github.com/sandeepkv93/product-inventory-admin/internal/observability"
	"github.com/sandeepkv93/product-inventory-admin/internal/repository"
	"github.com/sandeepkv93/product-inventory-admin/internal/service"
	"github.com/sandeepkv93/product-inventory-admin/internal/validation"
)

const (
	msgProductCreated = "Product created successfully"
	msgProductUpdated = "Product updated successfully"
	msgProductDeleted = "Product deleted successfully"
)

var errInvalidPayload = errors.New("invalid payload")

type ProductHandler struct {
	svc service.ProductService
}

func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list products", nil)
		return
	}
	response.Data(w, r, http.StatusOK, items)
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	productID, ok := parsePathID(chi.URLParam(r, "id"))
	if !ok {
		productNotFound(w, r)
		return
	}

	product, err := h.svc.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			productNotFound(w, r)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load product", nil)
		return
	}
	response.Data(w, r, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := decodeObject(r.Body)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", errInvalidPayload.Error(), nil)
		return
	}

	created, err := h.svc.Create(r.Context(), input)
	if err != nil {
		if writeValidationError(w, r, err) {
			return
		}
		if isConflictError(err) {
			response.Error(w, r, http.StatusConflict, "CONFLICT", "product already exists", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create product", nil)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "product.create",
		TargetType: "product",
		TargetID:   strconv.FormatUint(uint64(created.ID), 10),
		Action:     "create",
		Outcome:    "success",
		Reason:     "product_created",
	}, "product_name", created.ProductName)
	response.Message(w, r, http.StatusCreated, msgProductCreated, created)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID, ok := parsePathID(chi.URLParam(r, "id"))
	if !ok {
		productNotFound(w, r)
		return
	}
	input, err := decodeObject(r.Body)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", errInvalidPayload.Error(), nil)
		return
	}

	updated, err := h.svc.Update(r.Context(), productID, input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			productNotFound(w, r)
		case writeValidationError(w, r, err):
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to update product", nil)
		}
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "product.update",
		TargetType: "product",
		TargetID:   strconv.FormatUint(uint64(productID), 10),
		Action:     "update",
		Outcome:    "success",
		Reason:     "product_updated",
	}, "product_name", updated.ProductName)
	response.Message(w, r, http.StatusOK, msgProductUpdated, updated)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, ok := parsePathID(chi.URLParam(r, "id"))
	if !ok {
		productNotFound(w, r)
		return
	}

	if err := h.svc.DeleteByID(r.Context(), productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			productNotFound(w, r)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to delete product", nil)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "product.delete",
		TargetType: "product",
		TargetID:   strconv.FormatUint(uint64(productID), 10),
		Action:     "delete",
		Outcome:    "success",
		Reason:     "product_deleted",
	})
	response.Message(w, r, http.StatusOK, msgProductDeleted, nil)
}

func productNotFound(w http.ResponseWriter, r *http.Request) {
	response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error) bool {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return false
	}
	response.ValidationError(w, r, verr.Fields)
	return true
}

// parsePathID accepts positive decimal ids only. Anything else cannot name a
// stored product.
func parsePathID(input string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(input), 10, 64)
	if err != nil || n == 0 || n > uint64(^uint(0)) {
		return 0, false
	}
	return uint(n), true
}

// decodeObject reads a JSON object keeping numbers as json.Number. An empty
// body is an empty object.
func decodeObject(body io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, errInvalidPayload
	}
	if out == nil {
		return nil, errInvalidPayload
	}
	if dec.More() {
		return nil, errInvalidPayload
	}
	return out, nil
}

func isConflictError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"adalbertofjr/products-api/internal/events"
	"adalbertofjr/products-api/internal/product"
)

const maxBodyBytes = 1 << 20

// ProductHandler translates HTTP requests into product.Store calls. It holds
// no state of its own, so one value serves every request.
type ProductHandler struct {
	store     product.Store
	publisher events.Publisher
	logger    *zap.Logger
}

func NewProductHandler(store product.Store, publisher events.Publisher, logger *zap.Logger) *ProductHandler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// ListProducts handles GET /api/products.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.FindAll(r.Context())
	if err != nil {
		h.internalError(w, "list_products_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/product/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.store.FindByID(r.Context(), id)
	if errors.Is(err, product.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, msgProductNotFound)
		return
	}
	if err != nil {
		h.internalError(w, "get_product_failed", err, zap.String("product_id", id))
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// CreateProduct handles POST /api/products. Only title, description and
// price are read from the body.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	fields, err := h.readFields(w, r)
	if err != nil {
		h.logger.Info("create_product_bad_request", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	created, err := h.store.Create(r.Context(), fields)
	if err != nil {
		h.internalError(w, "create_product_failed", err)
		return
	}

	h.publish(r.Context(), events.ProductCreated, created)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateProduct handles PUT /api/products/{id}. Fields missing from the body
// keep their stored values; fields present are applied even when zero.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request, id string) {
	existing, err := h.store.FindByID(r.Context(), id)
	if errors.Is(err, product.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, msgProductNotFound)
		return
	}
	if err != nil {
		h.internalError(w, "update_product_lookup_failed", err, zap.String("product_id", id))
		return
	}

	fields, err := h.readFields(w, r)
	if err != nil {
		h.logger.Info("update_product_bad_request", zap.String("product_id", id), zap.Error(err))
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	updated, err := h.store.Update(r.Context(), id, fields.Merge(existing))
	if errors.Is(err, product.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, msgProductNotFound)
		return
	}
	if err != nil {
		h.internalError(w, "update_product_failed", err, zap.String("product_id", id))
		return
	}

	h.publish(r.Context(), events.ProductUpdated, updated)
	writeJSON(w, http.StatusOK, updated)
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *ProductHandler) readFields(w http.ResponseWriter, r *http.Request) (product.ProductFields, error) {
	var fields product.ProductFields

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fields, err
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return fields, err
	}
	return fields, nil
}

func (h *ProductHandler) publish(ctx context.Context, eventType events.EventType, p product.Product) {
	if err := h.publisher.Publish(ctx, events.NewEvent(eventType, p)); err != nil {
		h.logger.Warn("product_event_publish_failed",
			zap.String("event_type", string(eventType)),
			zap.String("product_id", p.ID),
			zap.Error(err),
		)
	}
}

func (h *ProductHandler) internalError(w http.ResponseWriter, msg string, err error, fields ...zap.Field) {
	h.logger.Error(msg, append(fields, zap.Error(err))...)
	writeMessage(w, http.StatusInternalServerError, msgInternalError)
}

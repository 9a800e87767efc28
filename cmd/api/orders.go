package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"panmart/internal/orders"
	"panmart/internal/params"

	"github.com/go-chi/chi/v5"
)

// decodeOrderRef turns the public "PM-..." reference from the URL back into
// the internal order id.
func (app *application) decodeOrderRef(r *http.Request) (int64, error) {
	ref := chi.URLParam(r, "orderRef")
	id, err := app.orderRefs.Decode(ref)
	if err != nil {
		return 0, fmt.Errorf("invalid order reference %q", ref)
	}
	return id, nil
}

func (app *application) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	status := r.URL.Query().Get("status")
	if status != "" && !orders.ValidStatus(status) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid status %q", status))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, total, err := app.orders.List(ctx, status, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("list orders: %w", err))
		return
	}
	p.ComputeMeta(total)

	for i := range list {
		ref, err := app.orderRefs.Encode(list[i].ID)
		if err != nil {
			app.internalServerError(w, r, fmt.Errorf("encode order ref: %w", err))
			return
		}
		list[i].RefCode = ref
	}

	data := struct {
		Orders     []orders.Order    `json:"orders"`
		Pagination params.Pagination `json:"pagination"`
	}{Orders: list, Pagination: p}

	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.decodeOrderRef(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	detail, err := app.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, fmt.Errorf("get order: %w", err))
		return
	}

	ref, err := app.orderRefs.Encode(detail.Order.ID)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("encode order ref: %w", err))
		return
	}
	detail.Order.RefCode = ref

	if err := app.jsonResponse(w, http.StatusOK, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateOrderStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

func (app *application) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.decodeOrderRef(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateOrderStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !orders.ValidStatus(payload.Status) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid status %q", payload.Status))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := app.orders.UpdateStatus(ctx, id, payload.Status); err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, fmt.Errorf("update order status: %w", err))
		return
	}

	data := map[string]string{"status": payload.Status}
	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}

package rest

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	filter := domain.ProductFilter{PageRequest: req}
	for _, c := range queryList(r, "categories") {
		filter.Categories = append(filter.Categories, domain.ProductCategory(c))
	}

	page, err := h.Products.ListProducts(r.Context(), filter, CallerFrom(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page, toProductViewResponse))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	view, err := h.Products.GetProduct(r.Context(), chi.URLParam(r, "idOrCode"), CallerFrom(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductViewResponse(view))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	view, err := h.Products.CreateProduct(r.Context(), CallerFrom(r.Context()), req.toInput(), requestMeta(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductViewResponse(view))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, domain.ErrInvalidID)
		return
	}
	var req updateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	in := req.toInput()
	in.ID = id

	view, err := h.Products.UpdateProduct(r.Context(), CallerFrom(r.Context()), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductViewResponse(view))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.Products.DeleteProduct(r.Context(), CallerFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) LikeOrUnlikeProduct(w http.ResponseWriter, r *http.Request) {
	view, err := h.Likes.ToggleLike(r.Context(), CallerFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductViewResponse(view))
}

func (h *Handler) GetLikes(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	page, err := h.Likes.GetLikes(r.Context(), domain.LikeTargetProduct, chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page, toPublicProfileResponse))
}

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"quickcart-be/internal/imagehost"
	"quickcart-be/internal/product"
	"quickcart-be/internal/utils"

	"github.com/shopspring/decimal"
)

// parseListFilter reads the catalog query string. Malformed numbers fall back to defaults.
func parseListFilter(r *http.Request) product.ListFilter {
	q := r.URL.Query()
	f := product.ListFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     product.Sort(q.Get("sort")),
		Page:     utils.ParsePositiveInt(q.Get("page"), 1),
		Limit:    utils.ParsePositiveInt(q.Get("limit"), product.DefaultLimit),
	}
	if v, err := decimal.NewFromString(q.Get("minPrice")); err == nil {
		f.MinPrice = &v
	}
	if v, err := decimal.NewFromString(q.Get("maxPrice")); err == nil {
		f.MaxPrice = &v
	}
	if v, err := strconv.ParseBool(q.Get("inStock")); err == nil {
		f.InStock = v
	}
	return f
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.Products.List(r.Context(), parseListFilter(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Products.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (h *Handler) ListMyProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Products.ListMine(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, products)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in product.Input
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	p, err := h.Products.Create(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]any{"insertedId": p.ID, "product": p})
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in product.Input
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	p, err := h.Products.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"modifiedCount": 1, "product": p})
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Products.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"deletedCount": 1})
}

func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var change product.StockChange
	if err := decodeJSON(w, r, &change); err != nil {
		handleError(w, r, err)
		return
	}

	quantity, err := h.Products.AdjustStock(r.Context(), r.PathValue("id"), change)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"modifiedCount": 1, "quantity": quantity})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Categories.GetCategories(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, categories)
}

// UploadImage proxies the multipart field "image" to the image host.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// Room for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, imagehost.MaxSize+64<<10)

	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handleError(w, r, imagehost.ErrTooLarge)
			return
		}
		handleError(w, r, errBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, imagehost.MaxSize+1))
	if err != nil {
		handleError(w, r, errBadRequest)
		return
	}

	url, err := h.Images.Upload(r.Context(), header.Filename, data)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]string{"url": url})
}

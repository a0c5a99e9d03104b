package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/inventory/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/domain"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/service"
)

const (
	templateIndex     = "index.html"
	templateItemTable = "item-table"
)

type ItemService interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, id uint) (domain.Item, error)
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	UpdateItem(ctx context.Context, id uint, item domain.Item) (domain.Item, error)
	DeleteItem(ctx context.Context, id uint) (domain.Item, error)
}

type ItemHandler struct {
	svc ItemService
}

func NewItemHandler(svc ItemService) *ItemHandler {
	return &ItemHandler{
		svc: svc,
	}
}

type indexPage struct {
	Items []domain.Item
}

// HandleIndex renders the inventory page, or only the item table for HTMX requests.
func (h *ItemHandler) HandleIndex(ctx *gin.Context) {
	items, err := h.svc.ListItems(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleIndex -> h.svc.ListItems -> %w", err)
		if service.KindOf(err) == service.KindStoreFault {
			response.RenderErr(ctx, response.ErrServiceUnavailable(err, "Database service unavailable"))
			return
		}
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	page := indexPage{Items: items}
	if ctx.GetHeader("HX-Request") != "" {
		ctx.HTML(http.StatusOK, templateItemTable, page)
		return
	}

	ctx.HTML(http.StatusOK, templateIndex, page)
}

// HandleListItems godoc
// @Summary      List items
// @Tags         items
// @Produce      json
// @Success      200      {object}   response.ItemsResponse
// @Failure      503      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /items/ [get]
func (h *ItemHandler) HandleListItems(ctx *gin.Context) {
	items, err := h.svc.ListItems(ctx.Request.Context())
	if err != nil {
		renderItemErr(ctx, fmt.Errorf("HandleListItems -> h.svc.ListItems -> %w", err), nil)
		return
	}

	ctx.JSON(http.StatusOK, response.ItemsResponse{
		Status: response.StatusSuccess,
		Items:  items,
	})
}

// HandleGetItem godoc
// @Summary      Get an item
// @Tags         items
// @Produce      json
// @Param        itemID   path       int  true  "Item ID"
// @Success      200      {object}   response.ItemResponse
// @Failure      404      {object}   response.Err
// @Failure      503      {object}   response.Err
// @Router       /items/{itemID} [get]
func (h *ItemHandler) HandleGetItem(ctx *gin.Context) {
	id, ok := parseItemID(ctx)
	if !ok {
		return
	}

	item, err := h.svc.GetItem(ctx.Request.Context(), id)
	if err != nil {
		renderItemErr(ctx, fmt.Errorf("HandleGetItem -> h.svc.GetItem -> %w", err), id)
		return
	}

	ctx.JSON(http.StatusOK, response.ItemResponse{
		Status: response.StatusSuccess,
		Item:   item,
	})
}

// HandleCreateItem godoc
// @Summary      Create an item
// @Description  Accepts a JSON body or form fields with name, description, price and quantity.
// @Tags         items
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request  body       request.ItemRequest  true  "item"
// @Success      200      {object}   response.ItemResponse
// @Failure      400      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      503      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /items/ [post]
func (h *ItemHandler) HandleCreateItem(ctx *gin.Context) {
	item, err := request.BindItem(ctx)
	if err != nil {
		renderItemErr(ctx, fmt.Errorf("HandleCreateItem -> request.BindItem -> %w", err), nil)
		return
	}

	created, err := h.svc.CreateItem(ctx.Request.Context(), item)
	if err != nil {
		renderItemErr(ctx, fmt.Errorf("HandleCreateItem -> h.svc.CreateItem -> %w", err), nil)
		return
	}

	ctx.JSON(http.StatusOK, response.ItemResponse{
		Status: response.StatusSuccess,
		Item:   created,
	})
}

// HandleUpdateItem godoc
// @Summary      Replace an item
// @Description  The item must exist before the payload is validated.
// @Tags         items
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        itemID   path       int                  true  "Item ID"
// @Param        request  body       request.ItemRequest  true  "item"
// @Success      200      {object}   response.ItemResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      503      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /items/{itemID} [put]
func (h *ItemHandler) HandleUpdateItem(ctx *gin.Context) {
	id, ok := parseItemID(ctx)
	if !ok {
		return
	}

	if _, err := h.svc.GetItem(ctx.Request.Context(), id); err != nil {
		renderItemErr(ctx, fmt.Errorf("HandleUpdateItem -> h.svc.GetItem -> %w", err), id)
		return
	}

	item, err := request.BindItem(ctx)
	if err != nil {
		renderItemErr(ctx, fmt.Errorf("HandleUpdateItem -> request.BindItem -> %w", err), id)
		return
	}

	updated, err := h.svc.UpdateItem(ctx.Request.Context(), id, item)
	if err != nil {
		renderItemErr(ctx, fmt.Errorf("HandleUpdateItem -> h.svc.UpdateItem -> %w", err), id)
		return
	}

	ctx.JSON(http.StatusOK, response.ItemResponse{
		Status: response.StatusSuccess,
		Item:   updated,
	})
}

// HandleDeleteItem godoc
// @Summary      Delete an item
// @Tags         items
// @Produce      json
// @Param        itemID   path       int  true  "Item ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      404      {object}   response.Err
// @Failure      503      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /items/{itemID} [delete]
func (h *ItemHandler) HandleDeleteItem(ctx *gin.Context) {
	id, ok := parseItemID(ctx)
	if !ok {
		return
	}

	if _, err := h.svc.DeleteItem(ctx.Request.Context(), id); err != nil {
		renderItemErr(ctx, fmt.Errorf("HandleDeleteItem -> h.svc.DeleteItem -> %w", err), id)
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{
		Status:  response.StatusSuccess,
		Message: fmt.Sprintf("Item %d deleted successfully", id),
	})
}

// parseItemID renders a 404 for ids that cannot name a stored item.
func parseItemID(ctx *gin.Context) (uint, bool) {
	raw := ctx.Param("itemID")

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrNotFound("Item", "id", raw))
		return 0, false
	}

	return uint(id), true
}

// renderItemErr maps every service.ErrorKind onto its response class.
func renderItemErr(ctx *gin.Context, err error, id any) {
	switch service.KindOf(err) {
	case service.KindValidation:
		response.RenderErr(ctx, response.ErrUnprocessableEntity(err, clientMessage(err, "Invalid data format")))
	case service.KindNegativeValue:
		response.RenderErr(ctx, response.ErrBadRequest(err, clientMessage(err, "Value cannot be negative")))
	case service.KindNotFound:
		response.RenderErr(ctx, response.ErrNotFound("Item", "id", id))
	case service.KindStoreFault:
		response.RenderErr(ctx, response.ErrServiceUnavailable(err, "Database error occurred"))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

func clientMessage(err error, fallback string) string {
	var m interface{ Message() string }
	if errors.As(err, &m) {
		return m.Message()
	}
	return fallback
}

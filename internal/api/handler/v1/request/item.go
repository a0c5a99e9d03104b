package request

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/yizeng/gab/gin/gorm/inventory/internal/domain"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatForm Format = "form"
)

// ItemRequest is the create/update payload. Pointer fields tell a missing
// value apart from a zero one.
type ItemRequest struct {
	Name        *string `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
	Price       *int    `json:"price" form:"price"`
	Quantity    *int    `json:"quantity" form:"quantity"`
}

// Validate checks presence first and the non-negative rule only once every
// field is present and well typed. Empty strings count as present.
func (req *ItemRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NotNil),
		validation.Field(&req.Description, validation.NotNil),
		validation.Field(&req.Price, validation.NotNil),
		validation.Field(&req.Quantity, validation.NotNil),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidItem, err)
	}

	return req.Item().CheckNonNegative()
}

// dropBlankFields treats empty form values as missing, so "price=" never
// binds as 0.
func (req *ItemRequest) dropBlankFields(form url.Values) {
	if form.Get("name") == "" {
		req.Name = nil
	}
	if form.Get("description") == "" {
		req.Description = nil
	}
	if form.Get("price") == "" {
		req.Price = nil
	}
	if form.Get("quantity") == "" {
		req.Quantity = nil
	}
}

func (req *ItemRequest) Item() domain.Item {
	var item domain.Item
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	return item
}

// PayloadError is a malformed or incomplete item payload.
type PayloadError struct {
	Format Format
	Err    error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("invalid %s item payload: %v", e.Format, e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

func (e *PayloadError) Is(target error) bool {
	return target == domain.ErrInvalidItem
}

// Message is safe to show to clients: decoder internals are never included,
// field-level validation messages are.
func (e *PayloadError) Message() string {
	msg := "Invalid form data"
	if e.Format == FormatJSON {
		msg = "Invalid JSON data format"
	}

	var fieldErrs validation.Errors
	if errors.As(e.Err, &fieldErrs) {
		msg += ": " + fieldErrs.Error()
	}

	return msg
}

// BindItem decodes the request body as JSON or as form fields, depending on
// the content type, and validates the result.
func BindItem(ctx *gin.Context) (domain.Item, error) {
	format := FormatForm
	if ctx.ContentType() == binding.MIMEJSON {
		format = FormatJSON
	}

	var req ItemRequest
	var err error
	if format == FormatJSON {
		err = ctx.ShouldBindJSON(&req)
	} else {
		err = ctx.ShouldBindWith(&req, binding.Form)
	}
	if err != nil {
		return domain.Item{}, &PayloadError{Format: format, Err: err}
	}
	if format == FormatForm {
		req.dropBlankFields(ctx.Request.Form)
	}

	if err = req.Validate(); err != nil {
		if errors.Is(err, domain.ErrNegativeValue) {
			return domain.Item{}, err
		}
		return domain.Item{}, &PayloadError{Format: format, Err: err}
	}

	return req.Item(), nil
}

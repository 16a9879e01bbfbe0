package model

import (
	"fmt"
	"strings"
)

// Item field names.
const (
	FieldName  = "name"
	FieldPrice = "price"
)

// Validation messages.
const (
	MsgFieldRequired = "field required"
	MsgNotString     = "value is not a valid string"
	MsgNotInteger    = "value is not a valid integer"
)

// Item is the typed schema enforced when schema validation is enabled.
type Item struct {
	Name  string `json:"name" bson:"name"`
	Price int64  `json:"price" bson:"price"`
}

// Document converts the item into a storable document.
func (i Item) Document() Document {
	return Document{
		FieldName:  i.Name,
		FieldPrice: i.Price,
	}
}

// FieldError describes a single failed field check.
type FieldError struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

// ValidationError is returned when a request body does not satisfy the schema.
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(fe.Loc, "."), fe.Msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	e.Errors = append(e.Errors, FieldError{Loc: []string{"body", field}, Msg: msg})
}

func newBodyError(msg string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Loc: []string{"body"}, Msg: msg}}}
}

// Validator checks a decoded request body and returns the document to store.
type Validator func(Document) (Document, error)

// AcceptAny accepts any key-value mapping unchanged.
func AcceptAny(doc Document) (Document, error) {
	return doc, nil
}

// ItemSchema requires a string name and an integer price. Other keys are dropped.
func ItemSchema(doc Document) (Document, error) {
	item, err := ItemFromDocument(doc)
	if err != nil {
		return nil, err
	}
	return item.Document(), nil
}

// ItemFromDocument builds an Item from a document, reporting every invalid field.
func ItemFromDocument(doc Document) (Item, error) {
	var (
		item Item
		verr ValidationError
	)

	if name, ok := doc[FieldName]; !ok {
		verr.add(FieldName, MsgFieldRequired)
	} else if s, isString := name.(string); !isString {
		verr.add(FieldName, MsgNotString)
	} else {
		item.Name = s
	}

	if price, ok := doc[FieldPrice]; !ok {
		verr.add(FieldPrice, MsgFieldRequired)
	} else if n, isInt := asInteger(price); !isInt {
		verr.add(FieldPrice, MsgNotInteger)
	} else {
		item.Price = n
	}

	if len(verr.Errors) > 0 {
		return Item{}, &verr
	}
	return item, nil
}

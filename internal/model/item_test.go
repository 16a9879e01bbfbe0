package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestItemSchema(t *testing.T) {
	tests := []struct {
		name      string
		input     Document
		want      Document
		wantLocs  []string
		wantValid bool
	}{
		{
			name:      "valid item",
			input:     Document{"name": "pen", "price": int64(10)},
			want:      Document{"name": "pen", "price": int64(10)},
			wantValid: true,
		},
		{
			name:      "extra fields dropped",
			input:     Document{"name": "pen", "price": int64(10), "color": "blue"},
			want:      Document{"name": "pen", "price": int64(10)},
			wantValid: true,
		},
		{
			name:      "integral float accepted",
			input:     Document{"name": "pen", "price": 10.0},
			want:      Document{"name": "pen", "price": int64(10)},
			wantValid: true,
		},
		{
			name:      "zero price and empty name",
			input:     Document{"name": "", "price": int64(0)},
			want:      Document{"name": "", "price": int64(0)},
			wantValid: true,
		},
		{
			name:     "missing both",
			input:    Document{},
			wantLocs: []string{"body.name", "body.price"},
		},
		{
			name:     "fractional price",
			input:    Document{"name": "pen", "price": 9.99},
			wantLocs: []string{"body.price"},
		},
		{
			name:     "string price",
			input:    Document{"name": "pen", "price": "10"},
			wantLocs: []string{"body.price"},
		},
		{
			name:     "boolean price",
			input:    Document{"name": "pen", "price": true},
			wantLocs: []string{"body.price"},
		},
		{
			name:     "numeric name",
			input:    Document{"name": int64(5), "price": int64(1)},
			wantLocs: []string{"body.name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got, err := ItemSchema(tt.input)

			// Assert
			if tt.wantValid {
				if err != nil {
					t.Fatalf("ItemSchema() unexpected error: %v", err)
				}
				if !got.Equal(tt.want) {
					t.Errorf("ItemSchema() = %v, want %v", got, tt.want)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ItemSchema() error = %v, want *ValidationError", err)
			}
			if len(verr.Errors) != len(tt.wantLocs) {
				t.Fatalf("got %d field errors, want %d: %v", len(verr.Errors), len(tt.wantLocs), verr)
			}
			for i, loc := range tt.wantLocs {
				if got := strings.Join(verr.Errors[i].Loc, "."); got != loc {
					t.Errorf("error[%d].Loc = %s, want %s", i, got, loc)
				}
			}
		})
	}
}

func TestAcceptAny(t *testing.T) {
	// Arrange
	doc := Document{"anything": []any{int64(1)}, "x": nil}

	// Act
	got, err := AcceptAny(doc)

	// Assert
	if err != nil {
		t.Fatalf("AcceptAny() unexpected error: %v", err)
	}
	if !got.Equal(doc) {
		t.Errorf("AcceptAny() = %v, want %v", got, doc)
	}
}

func TestValidationError_Error(t *testing.T) {
	// Arrange
	verr := &ValidationError{}
	verr.add(FieldName, MsgFieldRequired)

	// Act
	msg := verr.Error()

	// Assert
	if msg != "validation failed: body.name: field required" {
		t.Errorf("Error() = %q", msg)
	}
}

func TestNewItemEvent(t *testing.T) {
	// Arrange
	before := time.Now().UTC()

	// Act
	event := NewItemEvent(EventCreated, "65f1c2a9b4d3e8f7a6b5c4d3")

	// Assert
	if event.Type != EventCreated {
		t.Errorf("Type = %s, want %s", event.Type, EventCreated)
	}
	if event.ID != "65f1c2a9b4d3e8f7a6b5c4d3" {
		t.Errorf("ID = %s", event.ID)
	}
	if event.Timestamp.Before(before) {
		t.Error("Timestamp should not precede creation")
	}
}

package rpc

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestRouter_DispatchAndMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, req *Request) (interface{}, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	r := NewRouter()
	r.Use(mw("outer"), mw("inner"))
	r.Handle("getPatient", func(_ context.Context, req *Request) (interface{}, error) {
		order = append(order, "handler")
		return req.Pattern, nil
	})

	got, err := r.Dispatch(context.Background(), &Request{Pattern: "getPatient"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "getPatient" {
		t.Errorf("expected handler result, got %v", got)
	}
	want := []string{"outer", "inner", "handler"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("expected order %v, got %v", want, order)
	}
}

func TestRouter_UnknownPatternRunsMiddleware(t *testing.T) {
	seen := false
	r := NewRouter()
	r.Use(func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) (interface{}, error) {
			seen = true
			return next(ctx, req)
		}
	})

	_, err := r.Dispatch(context.Background(), &Request{Pattern: "unknown"})
	if !errors.Is(err, ErrNoHandler) {
		t.Errorf("expected ErrNoHandler, got %v", err)
	}
	if !seen {
		t.Error("expected middleware to observe unknown patterns")
	}
}

func TestRouter_Patterns(t *testing.T) {
	r := NewRouter()
	noop := func(context.Context, *Request) (interface{}, error) { return nil, nil }
	r.Handle("updateUserConsent", noop)
	r.Handle("createUserConsent", noop)

	want := []string{"createUserConsent", "updateUserConsent"}
	if got := r.Patterns(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRequest_Bind(t *testing.T) {
	req := &Request{Data: []byte(`{"identifier":"123"}`)}
	var body struct {
		Identifier string `json:"identifier"`
	}
	if err := req.Bind(&body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Identifier != "123" {
		t.Errorf("expected 123, got %q", body.Identifier)
	}

	if err := (&Request{}).Bind(&body); err == nil {
		t.Error("expected error for empty payload")
	}
}

package httpadapter

import (
	"context"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

func TestCORSMiddleware_SetsHeaders(t *testing.T) {
	cases := []struct {
		origin string
		want   string
		vary   string
	}{
		{"", "*", ""},
		{"https://hearth.example", "https://hearth.example", "Origin"},
	}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		ctx.Request.Header.SetMethod(consts.MethodGet)
		corsMiddleware(tc.origin)(context.Background(), ctx)

		if got := string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")); got != tc.want {
			t.Fatalf("allow-origin mismatch: got=%q want=%q", got, tc.want)
		}
		if got := string(ctx.Response.Header.Peek("Access-Control-Allow-Methods")); got != corsAllowMethods {
			t.Fatalf("allow-methods mismatch: got=%q want=%q", got, corsAllowMethods)
		}
		if got := string(ctx.Response.Header.Peek("Vary")); got != tc.vary {
			t.Fatalf("vary mismatch: got=%q want=%q", got, tc.vary)
		}
		if ctx.IsAborted() {
			t.Fatalf("GET should continue the chain")
		}
	}
}

func TestCORSMiddleware_ShortCircuitsPreflight(t *testing.T) {
	ctx := &app.RequestContext{}
	ctx.Request.Header.SetMethod(consts.MethodOptions)

	corsMiddleware("")(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNoContent; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if !ctx.IsAborted() {
		t.Fatalf("preflight should abort the chain")
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// Response is the API Gateway proxy response shape.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// Lambda adapts API Gateway proxy events to the chat use case.
type Lambda struct {
	uc      ChatUseCase
	timeout time.Duration
}

// NewLambda creates the Lambda handler. timeout bounds each request end to
// end; 0 disables the deadline.
func NewLambda(uc ChatUseCase, timeout time.Duration) (*Lambda, error) {
	if uc == nil {
		return nil, errors.New("handler: use case must not be nil")
	}
	return &Lambda{uc: uc, timeout: timeout}, nil
}

func (h *Lambda) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (Response, error) {
	if req.HTTPMethod != http.MethodPost {
		return jsonResponse(http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"}), nil
	}

	var cr chatRequest
	if err := json.Unmarshal([]byte(req.Body), &cr); err != nil {
		return jsonResponse(http.StatusBadRequest, errorResponse{Error: msgValidation}), nil
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	out, err := h.uc.Chat(ctx, cr.toInput())
	if err != nil {
		status, body := mapError(err)
		return jsonResponse(status, body), nil
	}

	return jsonResponse(http.StatusOK, chatResponse{
		Reply:      out.Reply,
		TokensUsed: out.TokensUsed,
		HistoryLen: out.HistoryLen,
	}), nil
}

func jsonResponse(status int, body any) Response {
	return Response{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       jsonBody(body),
	}
}

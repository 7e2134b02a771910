package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/logging"
)

// maxErrorBody caps how much of an error response is kept in the message.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response into the target structure.
// Non-2xx responses become an *errors.APIError for provider.
func DecodeResponse(resp *http.Response, provider string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Str("provider_id", provider).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		endpoint := ""
		if resp.Request != nil && resp.Request.URL != nil {
			endpoint = resp.Request.URL.Path
		}
		return &errors.APIError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Message:    msg,
			Endpoint:   endpoint,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", provider+" response", err)
	}

	return nil
}

// JoinURL joins a base URL and a path without doubling slashes.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

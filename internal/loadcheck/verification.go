package loadcheck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errMismatch = errors.New("response mismatch")

// verifyResponse checks status, envelope shape, and data or error against c.
func verifyResponse(c Case, status int, body []byte) error {
	if status != c.WantStatus {
		return fmt.Errorf("%w: status %d, want %d", errMismatch, status, c.WantStatus)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: body is not an envelope: %v", errMismatch, err)
	}
	if env.OfficialEmail == "" {
		return fmt.Errorf("%w: missing official_email", errMismatch)
	}

	if c.WantStatus != StatusOK {
		switch {
		case env.IsSuccess:
			return fmt.Errorf("%w: is_success true on failure", errMismatch)
		case env.Data != nil:
			return fmt.Errorf("%w: data present on failure", errMismatch)
		case env.Error != c.WantError:
			return fmt.Errorf("%w: error %q, want %q", errMismatch, env.Error, c.WantError)
		}
		return nil
	}

	switch {
	case !env.IsSuccess:
		return fmt.Errorf("%w: is_success false on success", errMismatch)
	case env.Error != "":
		return fmt.Errorf("%w: error present on success", errMismatch)
	case env.Data == nil:
		return fmt.Errorf("%w: missing data", errMismatch)
	}

	if c.Kind == kindAI {
		var word string
		if err := json.Unmarshal(env.Data, &word); err != nil {
			return fmt.Errorf("%w: AI data is not a string", errMismatch)
		}
		return nil
	}

	var got bytes.Buffer
	if err := json.Compact(&got, env.Data); err != nil {
		return fmt.Errorf("%w: %v", errMismatch, err)
	}
	if got.String() != c.WantData {
		return fmt.Errorf("%w: data %s, want %s", errMismatch, got.String(), c.WantData)
	}
	return nil
}

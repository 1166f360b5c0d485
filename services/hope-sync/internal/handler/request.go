package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/model"
)

const maxBodyBytes = 1 << 20

var errMissingBody = errors.New("request body must be a JSON object")

func newBodyDecoder(w http.ResponseWriter, r *http.Request) *json.Decoder {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// decodeJSON decodes a single JSON value from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := newBodyDecoder(w, r).Decode(dst); err != nil {
		return errMissingBody
	}

	return nil
}

// decodeDocument decodes a JSON object body. Integral numbers within the int32
// range become int32 and every other number a float64, matching how records
// written by the Node driver store them.
func decodeDocument(w http.ResponseWriter, r *http.Request) (model.Document, error) {
	decoder := newBodyDecoder(w, r)
	decoder.UseNumber()

	var doc model.Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, errMissingBody
	}
	if doc == nil {
		return nil, errMissingBody
	}

	for k, v := range doc {
		converted, err := convertNumbers(v)
		if err != nil {
			return nil, err
		}
		doc[k] = converted
	}

	return doc, nil
}

func convertNumbers(v any) (any, error) {
	switch value := v.(type) {
	case json.Number:
		f, err := value.Float64()
		if err != nil {
			return nil, errMissingBody
		}
		if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
			return int32(f), nil
		}
		return f, nil
	case map[string]any:
		for k, elem := range value {
			converted, err := convertNumbers(elem)
			if err != nil {
				return nil, err
			}
			value[k] = converted
		}
		return value, nil
	case []any:
		for i, elem := range value {
			converted, err := convertNumbers(elem)
			if err != nil {
				return nil, err
			}
			value[i] = converted
		}
		return value, nil
	default:
		return v, nil
	}
}

func idParam(r *http.Request) (model.ID, error) {
	return model.ParseID(chi.URLParam(r, "id"))
}

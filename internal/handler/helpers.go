package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

const maxBodySize = 1 << 20

// params resolves named request fields from a JSON body, an urlencoded body,
// or the query string, in that order. Clients of the original service sent
// all three shapes.
type params struct {
	json  map[string]interface{}
	form  url.Values
	query url.Values
}

func parseParams(r *http.Request) *params {
	p := &params{query: r.URL.Query()}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return p
	}

	if json.Valid(body) {
		_ = json.Unmarshal(body, &p.json)
	} else if values, err := url.ParseQuery(string(body)); err == nil {
		p.form = values
	}
	return p
}

func (p *params) Get(name string) string {
	if v, ok := p.json[name]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if v := p.form.Get(name); v != "" {
		return v
	}
	return p.query.Get(name)
}

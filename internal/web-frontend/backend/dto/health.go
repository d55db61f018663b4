package dto

import "encoding/json"

type ServicesHealth struct {
	Services []ServiceHealth `json:"services"`
}

type ServiceHealth struct {
	Name     string          `json:"name"`
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
}

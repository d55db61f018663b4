package dto

import "encoding/json"

// Envelope guarda o corpo bruto da resposta junto dos campos comuns success/message.
// Serializa de volta exatamente o que o backend enviou.
type Envelope struct {
	Success bool
	Message string
	Raw     json.RawMessage
}

func Failure(msg string) Envelope { return Envelope{Message: msg} }

func (e *Envelope) UnmarshalJSON(b []byte) error {
	var head struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	e.Success, e.Message = head.Success, head.Message
	e.Raw = append(json.RawMessage(nil), b...)
	return nil
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	return json.Marshal(struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
	}{e.Success, e.Message})
}

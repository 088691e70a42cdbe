package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONMap mapeia uma coluna JSONB do Postgres para map[string]any.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src any) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("jsonmap: unsupported scan source")
	}

	return json.Unmarshal(data, m)
}

// Merge aplica src chave a chave sobre uma cópia de m: chaves novas
// sobrescrevem, chaves ausentes em src ficam como estavam. É merge
// explícito de propósito — nunca substituição do mapa inteiro.
func (m JSONMap) Merge(src JSONMap) JSONMap {
	out := make(JSONMap, len(m)+len(src))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}

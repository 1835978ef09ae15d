package postgres

import (
	"context"
	"fmt"
	"time"
)

// nextDailySequence incrementa de forma atómica la secuencia diaria de un tipo
// de documento y devuelve el número formateado: <prefijo><yyyymmdd><seq 3 dígitos>.
// El upsert con RETURNING garantiza unicidad incluso con llamadas concurrentes.
func nextDailySequence(q Querier, kind, prefix string, day time.Time) (string, error) {
	const query = `
		INSERT INTO daily_sequences (kind, day, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (kind, day)
		DO UPDATE SET last_value = daily_sequences.last_value + 1
		RETURNING last_value`
	var seq int
	err := q.QueryRow(context.Background(), query, kind, day.Format("2006-01-02")).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("next %s sequence: %w", kind, err)
	}
	return fmt.Sprintf("%s%s%03d", prefix, day.Format("20060102"), seq), nil
}

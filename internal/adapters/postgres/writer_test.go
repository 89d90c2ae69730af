package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cristianfloyd/sicoss-go/internal/adapters/postgres"
	"github.com/cristianfloyd/sicoss-go/internal/domain"
	"github.com/cristianfloyd/sicoss-go/internal/ports"
)

// These cases exercise the validation that Write performs before it ever
// touches the database connection, so a nil *sql.DB is safe to pass.

func TestWrite_RejectsBadPeriodoFiscal(t *testing.T) {
	w := postgres.New(nil)
	_, err := w.Write(context.Background(), "2024", nil, ports.Append)
	assert.Error(t, err)
}

func TestWrite_RejectsOverlongCUIT(t *testing.T) {
	w := postgres.New(nil)
	r := domain.NewRecord(domain.Legajo{CUIT: "012345678901234", CodigoOS: "000000"})
	_, err := w.Write(context.Background(), "202401", []*domain.Record{r}, ports.Append)
	assert.Error(t, err)
}

func TestWrite_RejectsShortCodigoOS(t *testing.T) {
	w := postgres.New(nil)
	r := domain.NewRecord(domain.Legajo{CUIT: "20123456789", CodigoOS: "123"})
	_, err := w.Write(context.Background(), "202401", []*domain.Record{r}, ports.Append)
	assert.Error(t, err)
}

func TestWrite_EmptyRecordsIsNoop(t *testing.T) {
	w := postgres.New(nil)
	n, err := w.Write(context.Background(), "202401", nil, ports.Append)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

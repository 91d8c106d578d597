package consideration

import (
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/qamqor-cloud/sponsorscope/internal/domain/company"
)

func scanRecord(row pgx.Row) (company.Record, error) {
	var (
		rec   company.Record
		taxes [6]*float64
		last  *time.Time
	)
	err := row.Scan(
		&rec.BIN, &rec.Name, &rec.OKED, &rec.Activity, &rec.KATO,
		&rec.Locality, &rec.KRP, &rec.Size,
		&rec.Contacts, &rec.Website,
		&taxes[0], &taxes[1], &taxes[2], &taxes[3], &taxes[4], &taxes[5],
		&last,
	)
	if err != nil {
		return company.Record{}, err
	}

	rec.Taxes = make(map[int]float64)
	for i, v := range taxes {
		if v != nil {
			rec.Taxes[company.FirstTaxYear+i] = *v
		}
	}
	rec.LastTaxUpdate = last
	return rec, nil
}

package factory

import (
	"context"
	"fmt"

	"github.com/ranajunaid001/second-braind-junaid/internal/config"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/unitofwork"
	"github.com/ranajunaid001/second-braind-junaid/internal/storage/relational"
	storesheets "github.com/ranajunaid001/second-braind-junaid/internal/storage/sheets"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
	"github.com/ranajunaid001/second-braind-junaid/pkg/sheets"
)

// NewLedgerStore selects the ledger driver from config. The postgres driver
// needs a unit of work factory; the sheets driver authorizes against the
// configured service-account key.
func NewLedgerStore(ctx context.Context, cfg *config.Config, uowFactory unitofwork.RepositoryFactory) (ledger.Store, error) {
	switch cfg.Ledger.Driver {
	case "postgres":
		if uowFactory == nil {
			return nil, fmt.Errorf("postgres ledger driver requires a database connection")
		}
		return relational.NewStore(uowFactory, cfg.Assistant.MatchThreshold), nil
	case "sheets":
		client, err := sheets.NewClient(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to init sheets client: %w", err)
		}
		return storesheets.NewStore(client, cfg.Assistant.MatchThreshold), nil
	default:
		return nil, fmt.Errorf("unsupported ledger driver: %s", cfg.Ledger.Driver)
	}
}

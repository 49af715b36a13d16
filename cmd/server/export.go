package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pota-logger/backend/internal/adif"
	"github.com/pota-logger/backend/internal/storage"
	"github.com/pota-logger/backend/internal/storage/models"
)

func exportCommand(a *app) *cobra.Command {
	var date, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the ADIF log of a hunt session",
		Example: `  pota-logger export --date 2025-06-15 --out hunt.adi
  pota-logger export > today.adi`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = models.SessionDateFor(time.Now())
			}

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			doc, err := exportSession(cmd.Context(), db, date)
			if err != nil {
				return err
			}

			if out == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), doc)
				return err
			}
			return writeFile(out, doc)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Session date (YYYY-MM-DD, default today UTC)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")

	return cmd
}

// exportSession renders the ADIF document for the session on date.
func exportSession(ctx context.Context, db *storage.DB, date string) (string, error) {
	session, err := storage.NewSessionRepository(db).GetByDate(ctx, date)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", fmt.Errorf("no hunt session for %s", date)
	}

	qsos, err := storage.NewQSORepository(db).ListBySession(ctx, session.ID)
	if err != nil {
		return "", err
	}

	settings, err := storage.NewSettingsRepository(db).Get(ctx)
	if err != nil {
		return "", err
	}

	slog.Info("exported hunt session", "date", date, "qsos", len(qsos))
	return adif.Generate(settings.OperatorCallsign, qsos), nil
}

// writeFile writes doc to path, reporting close errors.
func writeFile(path, doc string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if _, err := io.WriteString(f, doc); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

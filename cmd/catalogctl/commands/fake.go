package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/studentcatalog/catalog-web/internal/graphql/graphqltest"
	"github.com/studentcatalog/catalog-web/pkg/logger"
)

func fakeCmd() *cobra.Command {
	var addr string
	var seed bool
	cmd := &cobra.Command{
		Use:   "fake-graphql",
		Short: "Run an in-memory GraphQL backend for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			fake := graphqltest.New()
			if seed {
				ada := fake.SeedStudent("Ada Lovelace", "ada@example.com")
				alan := fake.SeedStudent("Alan Turing", "alan@example.com")
				logic := fake.SeedCourse("Logic")
				fake.SeedCourse("Computability")
				fake.SeedEnrollment(ada.ID, logic.ID)
				fake.SeedEnrollment(alan.ID, logic.ID)
			}

			mux := http.NewServeMux()
			mux.Handle("/graphql", fake)
			srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			logger.Infof("fake graphql listening on http://%s/graphql", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:4000", "listen address")
	cmd.Flags().BoolVar(&seed, "seed", true, "seed sample students and courses")
	return cmd
}

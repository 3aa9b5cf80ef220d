// import_customers carga clientes desde un CSV (numero;nombre;email) en la empresa activa
// de un usuario. Pensado para migrar listados exportados de sistemas anteriores, que suelen
// venir en ISO-8859-1.
//
// Uso: go run ./cmd/import_customers -user <username> [-latin1] [-comma ';'] clientes.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/timereg-api/internal/application/catalog"
	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/infrastructure/postgres"
	"github.com/jhoicas/timereg-api/pkg/config"
	"github.com/jhoicas/timereg-api/pkg/logger"
)

func main() {
	username := flag.String("user", "", "usuario cuya empresa activa recibe los clientes")
	latin1 := flag.Bool("latin1", false, "el archivo está en ISO-8859-1")
	comma := flag.String("comma", ";", "separador de columnas")
	flag.Parse()
	if *username == "" || flag.NArg() != 1 || len([]rune(*comma)) != 1 {
		fmt.Fprintln(os.Stderr, "uso: import_customers -user <username> [-latin1] [-comma ';'] archivo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "import_customers"})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := parseCustomers(f, *latin1, []rune(*comma)[0])
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	user, err := repos.Users.GetByUsername(ctx, *username)
	if err != nil || user == nil {
		log.Fatal().Err(err).Str("username", *username).Msg("usuario no encontrado")
	}

	// Mismo guardián que la API: la empresa sale del perfil del usuario, nunca del archivo.
	guard := scope.NewGuard(repos.Profiles, nil, log.Component("scope"))
	sc, err := guard.Authorize(ctx, scope.Identity{UserID: user.ID}, scope.OpCustomerCreate)
	if err != nil {
		log.Fatal().Err(err).Msg("el usuario no tiene empresa activa")
	}

	uc := catalog.NewUseCase(postgres.NewTxRunner(pool), repos, log.Component("catalog"))
	var created, skipped int
	for _, r := range rows {
		if _, err := uc.CreateCustomer(ctx, sc, r.request); err != nil {
			if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrDuplicate) {
				log.Warn().Err(err).Int("line", r.line).Msg("fila omitida")
				skipped++
				continue
			}
			log.Fatal().Err(err).Int("line", r.line).Msg("importación interrumpida")
		}
		created++
	}
	log.Info().Str("company_id", sc.CompanyID()).Int("created", created).Int("skipped", skipped).Msg("importación terminada")
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/nextgenfx/fxterm/internal/checkout"
	"github.com/nextgenfx/fxterm/internal/dashboard"
	"github.com/nextgenfx/fxterm/internal/domain"
	"github.com/nextgenfx/fxterm/internal/onboarding"
	"github.com/nextgenfx/fxterm/internal/session"
	"github.com/nextgenfx/fxterm/internal/store"
	"github.com/nextgenfx/fxterm/internal/ticker"
	"github.com/nextgenfx/fxterm/pkg/api"
	"github.com/nextgenfx/fxterm/pkg/config"
	"github.com/nextgenfx/fxterm/pkg/logger"
	"github.com/nextgenfx/fxterm/pkg/persistence"
	"github.com/nextgenfx/fxterm/pkg/secretstore"
	"github.com/nextgenfx/fxterm/pkg/shutdown"
)

const usage = `usage: fxterm <command> [flags]

commands:
  login       sign in and store the session
  logout      sign out and clear the stored session
  register    create an account directly (no plan purchase)
  whoami      print the signed-in user
  checkout    purchase a plan and park the signup for onboarding
  onboard     finish account setup after checkout
  dashboard   open the trading dashboard
  sync        refresh the cached trades and stats once
`

type app struct {
	cfg     *config.Config
	vault   *secretstore.Store
	client  *api.Client
	session *session.Manager
	store   *store.TradingStore
}

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := flag.String("config", "", "config file path (yaml)")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	// .env is optional and only eases local development.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		OutputFile: cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		fatal(err)
	}

	a, err := newApp(cfg)
	if err != nil {
		fatal(err)
	}

	sd := shutdown.NewManager()
	sd.OnShutdown(func(ctx context.Context, wg *sync.WaitGroup) {
		_ = a.vault.Close()
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = a.run(ctx, flag.Arg(0), flag.Args()[1:])

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	sd.Shutdown(shutdownCtx)
	cancel()

	if err != nil {
		fatal(err)
	}
}

func newApp(cfg *config.Config) (*app, error) {
	keyBytes, err := secretstore.ParseKey(cfg.VaultKey)
	if err != nil {
		return nil, err
	}

	vault, err := secretstore.Open(secretstore.OpenOptions{
		Path:          cfg.VaultPath(),
		EncryptionKey: keyBytes,
	})
	if err != nil {
		return nil, err
	}

	st, err := store.New(persistence.NewJSONFileService(cfg.StatePath()))
	if err != nil {
		vault.Close()
		return nil, err
	}

	a := &app{cfg: cfg, vault: vault, store: st}

	a.client = api.NewClient(api.TransportConfig{
		BaseURL:   cfg.APIBaseURL,
		UserAgent: fmt.Sprintf("%s/%s", cfg.App.Name, cfg.App.Version),
		Timeout:   cfg.RequestTimeout,
		Tokens:    func() string { return a.session.AccessToken() },
	})
	a.session = session.NewManager(vault, a.client.Auth)
	return a, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		a.session.Logout(ctx)
		a.store.ClearTrades()
		fmt.Println("Signed out.")
		return nil
	case "register":
		return a.cmdRegister(ctx, args)
	case "whoami":
		return a.cmdWhoami()
	case "checkout":
		return a.cmdCheckout(ctx, args)
	case "onboard":
		return a.cmdOnboard(ctx, args)
	case "dashboard":
		return a.cmdDashboard(ctx)
	case "sync":
		return a.cmdSync(ctx)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		return fmt.Errorf("login: -email is required")
	}
	pw, err := resolvePassword(*password)
	if err != nil {
		return err
	}

	user, err := a.session.Login(ctx, *email, pw)
	if err != nil {
		return fmt.Errorf("login: %s", api.UserMessage(err))
	}
	fmt.Printf("Signed in as %s (%s).\n", user.FullName(), user.Email)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *first == "" || *last == "" {
		return fmt.Errorf("register: -email, -first-name and -last-name are required")
	}
	pw, err := resolvePassword(*password)
	if err != nil {
		return err
	}

	resp, err := a.session.Register(ctx, api.RegisterCredentials{
		FirstName:       *first,
		LastName:        *last,
		Email:           *email,
		Password:        pw,
		ConfirmPassword: pw,
	})
	if err != nil {
		return fmt.Errorf("register: %s", api.UserMessage(err))
	}
	fmt.Printf("Account created for %s.\n", resp.User.Email)
	return nil
}

func (a *app) cmdWhoami() error {
	user := a.session.CurrentUser()
	if user == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", user.FullName(), user.Email, user.Role)
	if ta := user.TradingAccount; ta != nil {
		fmt.Printf("MT5 %s @ %s, risk %s\n", ta.MT5Login, ta.MT5Server, ta.RiskProfile.Label())
	}
	return nil
}

func (a *app) cmdCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	plan := fs.String("plan", checkout.DefaultPlanID, "plan id (starter, professional, enterprise)")
	email := fs.String("email", "", "account email")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	password := fs.String("password", "", "account password (prompted when omitted)")
	card := fs.String("card", "", "card number")
	expiry := fs.String("expiry", "", "card expiry (MM/YY)")
	cvv := fs.String("cvv", "", "card security code")
	cardName := fs.String("card-name", "", "name on card")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pw, err := resolvePassword(*password)
	if err != nil {
		return err
	}

	gateway := &checkout.SimulatedGateway{
		Delay: time.Duration(a.cfg.Checkout.GatewayDelayMs) * time.Millisecond,
	}
	pending := &checkout.PendingVault{Vault: a.vault}
	ttl := time.Duration(a.cfg.Checkout.PendingTTLHours) * time.Hour

	m := checkout.NewMachine(*plan, gateway, pending, ttl)
	p := m.Plan()
	fmt.Printf("Checking out %s ($%.0f/%s)...\n", p.Name, p.Price, p.Period)

	if !m.SubmitDetails(checkout.Details{
		Email:           *email,
		FirstName:       *first,
		LastName:        *last,
		Password:        pw,
		ConfirmPassword: pw,
		AgreedToTerms:   true,
	}) {
		return fmt.Errorf("checkout: %s", m.Err())
	}

	ok, err := m.SubmitPayment(ctx, checkout.PaymentDetails{
		CardNumber: checkout.FormatCardNumber(*card),
		ExpiryDate: checkout.FormatExpiry(*expiry),
		CVV:        checkout.FormatCVV(*cvv),
		CardName:   *cardName,
	})
	if err != nil {
		return fmt.Errorf("checkout: %s", m.Err())
	}
	if !ok {
		return fmt.Errorf("checkout: %s", m.Err())
	}

	fmt.Println("Payment accepted. Run `fxterm onboard` to finish account setup.")
	return nil
}

func (a *app) cmdOnboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("onboard", flag.ExitOnError)
	risk := fs.Int("risk", int(domain.DefaultRiskProfile), "risk profile 0-4")
	mt5Login := fs.String("mt5-login", "", "MT5 account login (optional)")
	mt5Server := fs.String("mt5-server", "", "MT5 server (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	wizard := onboarding.NewWizard()
	wizard.SetPreferences(onboarding.Preferences{
		RiskProfile: domain.RiskProfile(*risk),
		MT5Login:    *mt5Login,
		MT5Server:   *mt5Server,
	})

	runner := &onboarding.Runner{
		Pending:       &checkout.PendingVault{Vault: a.vault},
		Registrar:     a.session,
		Subscriptions: a.client.Subscriptions,
		Users:         a.client.Users,
	}

	taskVault := &onboarding.TaskVault{Vault: a.vault}

	out := runner.Complete(ctx, wizard.Preferences())
	switch out.Status {
	case onboarding.Completed:
		if err := taskVault.ClearTasks(); err != nil {
			logger.Warnf("onboard: could not clear pending tasks: %v", err)
		}
		fmt.Printf("Account ready. Sign in at %s\n", out.Redirect)
	case onboarding.CompletedWithPendingTasks:
		if err := taskVault.SaveTasks(out.PendingTasks); err != nil {
			logger.Warnf("onboard: could not record pending tasks: %v", err)
		}
		fmt.Printf("Account created, but some setup is unfinished: %s\n",
			strings.Join(out.PendingTasks, ", "))
		fmt.Println("Contact support if this persists.")
	case onboarding.Failed:
		if out.Redirect == onboarding.RedirectPricing {
			return fmt.Errorf("onboard: nothing to finish, purchase a plan first (fxterm checkout)")
		}
		return fmt.Errorf("onboard: %s", api.UserMessage(out.Err))
	}
	return nil
}

func (a *app) cmdDashboard(ctx context.Context) error {
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("dashboard: sign in first (fxterm login)")
	}

	refresher := dashboard.NewRefresher(a.client.Trades, a.store,
		time.Duration(a.cfg.Dashboard.RefreshSeconds)*time.Second)
	tk := ticker.New(a.cfg.Dashboard.TickerPairs, time.Now().UnixNano())

	d := dashboard.New(dashboard.Options{Title: a.cfg.App.Name}, refresher, a.store, tk)
	d.SetUser(a.session.CurrentUser())

	taskVault := &onboarding.TaskVault{Vault: a.vault}
	if tasks, err := taskVault.LoadTasks(); err != nil {
		logger.Warnf("dashboard: could not load pending tasks: %v", err)
	} else if len(tasks) > 0 {
		d.SetPendingTasks(tasks)
	}

	return d.Run(ctx)
}

func (a *app) cmdSync(ctx context.Context) error {
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("sync: sign in first (fxterm login)")
	}

	refresher := dashboard.NewRefresher(a.client.Trades, a.store,
		time.Duration(a.cfg.Dashboard.RefreshSeconds)*time.Second)
	if err := refresher.RefreshOnce(ctx); err != nil {
		return fmt.Errorf("sync: %s", api.UserMessage(err))
	}

	trades := a.store.Trades()
	fmt.Printf("Synced %d trades.\n", len(trades))
	if stats := a.store.Stats(); stats != nil {
		fmt.Printf("Open:%d Closed:%d Profit:$%.2f\n",
			stats.OpenTrades, stats.ClosedTrades, stats.TotalProfit)
	}
	return nil
}

func resolvePassword(fromFlag string) (string, error) {
	if fromFlag != "" {
		return fromFlag, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("password required: pass -password or run interactively")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}

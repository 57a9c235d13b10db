package driver

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/merkel/internal/domain"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().Foreground(subtle)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const (
	menuHelp    = "help"
	menuStats   = "stats"
	menuAsk     = "ask"
	menuBid     = "bid"
	menuWallet  = "wallet"
	menuAdvance = "advance"
	menuQuit    = "quit"
)

// Run drives the interactive menu loop until the user quits or ctx is
// cancelled. Every mutation of the book and the ledger happens between menu
// actions, never concurrently with one.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Println(headerStyle.Render("MERKEL TRADING VENUE"))
		fmt.Println(mutedStyle.Render("Current time: " + s.currentTime))

		var choice string
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("What next?").
					Options(
						huh.NewOption("1: Print help", menuHelp),
						huh.NewOption("2: Print exchange stats", menuStats),
						huh.NewOption("3: Make an offer (sell)", menuAsk),
						huh.NewOption("4: Make a bid (buy)", menuBid),
						huh.NewOption("5: Print wallet", menuWallet),
						huh.NewOption("6: Continue (next time step)", menuAdvance),
						huh.NewOption("7: Quit", menuQuit),
					).
					Value(&choice),
			),
		).Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return errors.Wrap(err, "menu")
		}

		switch choice {
		case menuHelp:
			s.printHelp()
		case menuStats:
			s.printStats()
		case menuAsk:
			s.promptOrder(domain.SideAsk)
		case menuBid:
			s.promptOrder(domain.SideBid)
		case menuWallet:
			s.printWallet()
		case menuAdvance:
			if err := s.advanceAndReport(); err != nil {
				return err
			}
		case menuQuit:
			return nil
		}
	}
}

func (s *Session) printHelp() {
	fmt.Println(sectionStyle.Render("Help"))
	fmt.Println("Your aim is to make money. Analyze the market and trade.")
}

func (s *Session) printStats() {
	fmt.Println(sectionStyle.Render("Exchange stats"))
	for _, stat := range s.Stats() {
		fmt.Printf("Product: %s\n", stat.Product)
		if stat.AskCount == 0 {
			fmt.Println("  No asks")
			continue
		}
		fmt.Printf("  Asks seen: %d\n", stat.AskCount)
		fmt.Printf("  Max ask: %s\n", stat.MaxAsk.String())
		fmt.Printf("  Min ask: %s\n", stat.MinAsk.String())
	}
}

func (s *Session) promptOrder(side domain.Side) {
	verb := "bid"
	if side == domain.SideAsk {
		verb = "ask"
	}

	var line string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Make an %s", verb)).
				Description("Format: product,price,amount, e.g. ETH/USDT,200,0.5").
				Value(&line),
		),
	).Run()
	if err != nil {
		return
	}

	_, err = s.PlaceOrder(side, line)
	switch {
	case err == nil:
		fmt.Println("Wallet looks good.")
	case errors.Is(err, ErrInsufficientFunds):
		fmt.Println("Wallet has insufficient funds.")
	default:
		var parseErr *domain.ParseError
		if errors.As(err, &parseErr) {
			fmt.Println(errorStyle.Render("Bad input!"))
			return
		}
		fmt.Println(errorStyle.Render(err.Error()))
	}
}

func (s *Session) printWallet() {
	fmt.Println(sectionStyle.Render("Wallet"))
	balances := s.Balances()
	for _, currency := range s.ledger.Currencies() {
		fmt.Printf("%s : %s\n", currency, balances[currency].String())
	}
}

func (s *Session) advanceAndReport() error {
	fmt.Println(mutedStyle.Render("Going to next time frame..."))
	result, err := s.Advance()
	if err != nil {
		return err
	}
	fmt.Printf("Sales: %d\n", len(result.Trades))
	for _, trade := range result.Trades {
		fmt.Printf("Sale price: %s amount %s\n", trade.Price.String(), trade.Amount.String())
	}
	if result.Settled > 0 {
		fmt.Printf("Settled %d of them against your wallet.\n", result.Settled)
	}
	return nil
}

// Command checkout runs the data bundle purchase flow in a terminal
// against a running backend: pick a plan, enter the numbers, confirm the
// charge and watch the payment life cycle advance.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/datahubke/datahub-payments-backend/internal/apiclient"
	"github.com/datahubke/datahub-payments-backend/internal/checkout"
	"github.com/datahubke/datahub-payments-backend/pkg/logger"
)

type consoleView struct {
	banner string
}

func (v consoleView) Show() { fmt.Println("\n=== " + v.banner + " ===") }
func (v consoleView) Hide() {}

type consoleNotifier struct{}

func (consoleNotifier) ShowError(message string) { fmt.Println("! " + message) }
func (consoleNotifier) Dismiss()                 {}

func main() {
	serverURL := flag.String("server", "http://localhost:3000", "backend base URL")
	flag.Parse()

	api := apiclient.New(*serverURL)

	ctx := context.Background()
	plans, err := api.Plans(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load plans:", err)
		os.Exit(1)
	}

	session := checkout.NewSession(checkout.Config{
		Plans:    plans,
		Payments: api,
		Orders:   api,
		Views: checkout.ViewRegistry{
			checkout.StatePlanSelection:       consoleView{banner: "Choose a data plan"},
			checkout.StateNumberEntry:         consoleView{banner: "Enter your numbers"},
			checkout.StatePaymentConfirmation: consoleView{banner: "Confirm payment"},
			checkout.StateProcessing:          consoleView{banner: "Processing payment"},
			checkout.StateSuccess:             consoleView{banner: "Order complete"},
		},
		Notifier: consoleNotifier{},
		Delays:   checkout.DefaultDelays(),
		Log:      logger.Nop(),
	})

	in := bufio.NewScanner(os.Stdin)

	for {
		switch session.State() {
		case checkout.StatePlanSelection:
			for i, p := range plans {
				fmt.Printf("  %d) %s - Ksh %d\n", i+1, p.Name, p.Price)
			}
			choice, ok := prompt(in, "plan number")
			if !ok {
				return
			}
			idx, err := strconv.Atoi(choice)
			if err != nil || idx < 1 || idx > len(plans) {
				fmt.Println("! pick a number from the list")
				continue
			}
			if err := session.SelectPlan(plans[idx-1].Name); err != nil {
				fmt.Println("!", err)
			}

		case checkout.StateNumberEntry:
			safaricom, ok := prompt(in, "Safaricom number (pays)")
			if !ok {
				return
			}
			airtel, ok := prompt(in, "Airtel number (receives, blank = same)")
			if !ok {
				return
			}
			canProceed, err := session.EnterNumbers(safaricom, airtel)
			if err != nil {
				fmt.Println("!", err)
				continue
			}
			if !canProceed {
				fmt.Println("! enter a valid Safaricom number")
				continue
			}
			if err := session.Proceed(); err != nil {
				fmt.Println("!", err)
			}

		case checkout.StatePaymentConfirmation:
			summary := session.Summary()
			fmt.Println("  Plan:      " + summary.PlanLine)
			fmt.Println("  Safaricom: " + summary.SafaricomNumber)
			fmt.Println("  Airtel:    " + summary.AirtelNumber)
			fmt.Println("  Total:     " + summary.TotalLine)
			answer, ok := prompt(in, "confirm charge? [y/N]")
			if !ok {
				return
			}
			if !strings.EqualFold(answer, "y") {
				session.NewOrder()
				continue
			}
			if err := session.ConfirmPayment(ctx); err != nil {
				// The session schedules its own return to confirmation.
				waitWhile(session, checkout.StateProcessing)
				continue
			}
			watchProcessing(session)

		case checkout.StateSuccess:
			if entry := session.CompletedEntry(); entry != nil {
				fmt.Println("  Transaction ID:", entry.TransactionID)
				fmt.Println("  Plan:          ", entry.Plan.Name)
			}
			answer, ok := prompt(in, "new order? [y/N]")
			if !ok || !strings.EqualFold(answer, "y") {
				return
			}
			session.NewOrder()
		}
	}
}

func prompt(in *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label + ": ")
	if !in.Scan() {
		return "", false
	}
	return strings.TrimSpace(in.Text()), true
}

// watchProcessing prints each progress announcement until the flow leaves
// the processing state.
func watchProcessing(session *checkout.Session) {
	var last string
	for session.State() == checkout.StateProcessing {
		p := session.ProcessingProgress()
		if p.Headline != last {
			last = p.Headline
			fmt.Println("  " + p.Headline + " - " + p.Detail)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func waitWhile(session *checkout.Session, state checkout.State) {
	for session.State() == state {
		time.Sleep(200 * time.Millisecond)
	}
}

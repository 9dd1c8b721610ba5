// Command dashboard is the admin's terminal view of the lead pipeline.
// It logs in, prints the reconciled lead list, and keeps refreshing it;
// with -mark it flips one lead to REACHED_OUT instead. All reads and
// writes go through the reconciliation flow, so the dashboard keeps
// working across server restarts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/visahub/lead-intake/internal/client"
	"github.com/visahub/lead-intake/internal/entity"
	"github.com/visahub/lead-intake/internal/logger"
)

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080", "lead-intake server base URL")
		email     = flag.String("email", "admin@example.com", "admin email")
		password  = flag.String("password", "", "admin password")
		cachePath = flag.String("cache", "leads-cache.json", "path of the local lead cache")
		markID    = flag.String("mark", "", "mark the given lead id as REACHED_OUT and exit")
		watch     = flag.Bool("watch", false, "keep refreshing the list until interrupted")
	)
	flag.Parse()

	log, err := logger.New("warn")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := client.NewLeadClient(*serverURL, client.NewFileCache(*cachePath), log)

	// Login is best-effort: with the server down the cache still serves.
	if *password != "" {
		if _, err := c.Login(ctx, *email, *password); err != nil {
			fmt.Fprintln(os.Stderr, "login failed (continuing with cache):", err)
		}
	}

	if *markID != "" {
		lead, err := c.UpdateStatus(ctx, *markID, entity.StatusReachedOut)
		if err != nil {
			fmt.Fprintln(os.Stderr, "update failed:", err)
			os.Exit(1)
		}
		fmt.Printf("%s %s is now %s\n", lead.FirstName, lead.LastName, lead.Status)
		return
	}

	leads, err := c.FetchLeads(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fetch failed:", err)
		os.Exit(1)
	}
	printLeads(leads)

	if !*watch {
		return
	}

	c.StartAutoRefresh(ctx, func(leads []entity.Lead) {
		fmt.Println()
		printLeads(leads)
	})
	<-ctx.Done()
}

func printLeads(leads []entity.Lead) {
	if len(leads) == 0 {
		fmt.Println("no leads yet")
		return
	}
	fmt.Printf("%-38s %-22s %-12s %-16s %s\n", "ID", "NAME", "STATUS", "VISAS", "SUBMITTED")
	for _, l := range leads {
		visas := make([]string, len(l.InterestedVisas))
		for i, v := range l.InterestedVisas {
			visas[i] = string(v)
		}
		fmt.Printf("%-38s %-22s %-12s %-16s %s\n",
			l.ID,
			l.FirstName+" "+l.LastName,
			l.Status,
			strings.Join(visas, ","),
			l.CreatedAt,
		)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pvandermeer/vosdns/internal/dns"
	"github.com/pvandermeer/vosdns/internal/resolver"
)

func main() {
	var (
		server    = flag.String("server", "8.8.8.8:53", "DNS server HOST:PORT")
		name      = flag.String("name", "example.com", "Query name")
		qtype     = flag.Int("qtype", 1, "Query type (numeric, A=1)")
		timeout   = flag.Duration("timeout", 2*time.Second, "Timeout")
		recursive = flag.Bool("rd", true, "Set the recursion desired flag")
		quiet     = flag.Bool("quiet", false, "Suppress output (exit status indicates success)")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	p, err := resolver.Exchange(ctx, *server, *name, dns.QueryType(*qtype), *recursive, *timeout)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "dnsquery error: %v\n", err)
		}
		os.Exit(1)
	}
	if *quiet {
		return
	}

	fmt.Printf("id=%d rcode=%s answers=%d authorities=%d additionals=%d\n",
		p.Header.ID,
		p.Header.ResCode,
		len(p.Answers),
		len(p.Authorities),
		len(p.Resources),
	)

	printSection("ANSWER", p.Answers)
	printSection("AUTHORITY", p.Authorities)
	printSection("ADDITIONAL", p.Resources)
}

func printSection(label string, records []dns.Record) {
	if len(records) == 0 {
		return
	}
	fmt.Printf(";; %s\n", label)
	for _, rr := range records {
		fmt.Println(rr)
	}
}

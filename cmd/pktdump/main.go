package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pvandermeer/vosdns/internal/dns"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: pktdump path/to/packet.bin\n")
		os.Exit(2)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read packet: %v\n", err)
		os.Exit(1)
	}
	p, err := dns.ParsePacket(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to decode packet: %v\n", err)
		os.Exit(1)
	}

	h := p.Header
	fmt.Printf("ID: %d\n", h.ID)
	fmt.Printf("RESPONSE: %t OPCODE: %d RCODE: %s\n", h.Response, h.Opcode, h.ResCode)
	fmt.Printf("AA: %t TC: %t RD: %t RA: %t\n",
		h.AuthoritativeAnswer, h.TruncatedMessage, h.RecursionDesired, h.RecursionAvailable)
	fmt.Printf("COUNTS: qd=%d an=%d ns=%d ar=%d\n",
		h.Questions, h.Answers, h.AuthoritativeEntries, h.ResourceEntries)

	if len(p.Questions) > 0 {
		fmt.Println("QUESTION:")
		for _, q := range p.Questions {
			fmt.Printf("  %s %s\n", q.Name, q.QType)
		}
	}
	printSection("ANSWER", p.Answers)
	printSection("AUTHORITY", p.Authorities)
	printSection("ADDITIONAL", p.Resources)
}

func printSection(label string, records []dns.Record) {
	if len(records) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, rr := range records {
		fmt.Printf("  %s\n", rr)
	}
}

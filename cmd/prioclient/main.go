// Command prioclient is a small in-process demonstration driver: it
// builds a config, submits a handful of Boolean client records, runs the
// two-server SNIP verification and aggregation protocol in-process, and
// logs the recovered per-field totals.
package main

import (
	"log"

	"github.com/tuneinsight/prio/client"
	"github.com/tuneinsight/prio/config"
	"github.com/tuneinsight/prio/server"
)

func main() {
	const numFields = 8
	cfg, err := config.NewConfig(numFields)
	if err != nil {
		log.Fatalf("prioclient: building config: %v", err)
	}

	masterSeed := []byte("demo-master-seed-shared-out-of-band")
	sA, err := server.NewServer(cfg, client.ServerA, masterSeed)
	if err != nil {
		log.Fatalf("prioclient: constructing server A: %v", err)
	}
	sB, err := server.NewServer(cfg, client.ServerB, masterSeed)
	if err != nil {
		log.Fatalf("prioclient: constructing server B: %v", err)
	}

	submissions := [][]bool{
		{true, false, true, false, true, true, false, false},
		{false, false, true, true, true, false, true, false},
		{true, true, true, false, false, false, false, true},
	}

	for counter, data := range submissions {
		pA, pB, err := client.NewPacketPair(cfg, data)
		if err != nil {
			log.Fatalf("prioclient: submission %d: building packet pair: %v", counter, err)
		}

		secret, err := sA.SecretForPacket(uint64(counter))
		if err != nil {
			log.Fatalf("prioclient: submission %d: deriving shared secret: %v", counter, err)
		}

		vA := server.NewVerifier(sA)
		vB := server.NewVerifier(sB)

		if err := vA.SetData(pA, secret); err != nil {
			log.Fatalf("prioclient: submission %d: server A SetData: %v", counter, err)
		}
		if err := vB.SetData(pB, secret); err != nil {
			log.Fatalf("prioclient: submission %d: server B SetData: %v", counter, err)
		}

		r1A, err := vA.Round1()
		if err != nil {
			log.Fatalf("prioclient: submission %d: server A Round1: %v", counter, err)
		}
		r1B, err := vB.Round1()
		if err != nil {
			log.Fatalf("prioclient: submission %d: server B Round1: %v", counter, err)
		}

		r2A, err := vA.Round2(r1A, r1B)
		if err != nil {
			log.Fatalf("prioclient: submission %d: server A Round2: %v", counter, err)
		}
		r2B, err := vB.Round2(r1A, r1B)
		if err != nil {
			log.Fatalf("prioclient: submission %d: server B Round2: %v", counter, err)
		}

		valid, err := vA.Decide(r2A, r2B)
		if err != nil {
			log.Fatalf("prioclient: submission %d: deciding validity: %v", counter, err)
		}
		if !valid {
			log.Printf("prioclient: submission %d rejected as invalid, dropping", counter)
			continue
		}

		if err := sA.Aggregate(vA); err != nil {
			log.Fatalf("prioclient: submission %d: server A aggregate: %v", counter, err)
		}
		if err := sB.Aggregate(vB); err != nil {
			log.Fatalf("prioclient: submission %d: server B aggregate: %v", counter, err)
		}
		log.Printf("prioclient: submission %d accepted and aggregated", counter)
	}

	totals, err := server.TotalShareFinal(cfg, sA.TotalShare(), sB.TotalShare())
	if err != nil {
		log.Fatalf("prioclient: combining total shares: %v", err)
	}
	log.Printf("prioclient: final per-field totals: %v", totals)
}

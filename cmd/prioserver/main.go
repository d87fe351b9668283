// Command prioserver demonstrates server A's half of the protocol: it
// verifies server A's packet, exchanges the two verification round
// messages with its peer and aggregates only its own share. There is no
// real client or peer, so the demo builds both packets and runs server
// B's verifier in the same process.
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
		log.Fatalf("prioserver: building config: %v", err)
	}

	masterSeed := []byte("demo-master-seed-shared-out-of-band")

	// In a real deployment, pA and pB would arrive over the network from
	// the client and its peer server respectively. Here we build both in
	// one process purely to have something to verify.
	pA, pB, err := client.NewPacketPair(cfg, []bool{true, false, true, false, true, true, false, false})
	if err != nil {
		log.Fatalf("prioserver: building demo packet pair: %v", err)
	}

	sA, err := server.NewServer(cfg, client.ServerA, masterSeed)
	if err != nil {
		log.Fatalf("prioserver: constructing server A: %v", err)
	}
	sB, err := server.NewServer(cfg, client.ServerB, masterSeed)
	if err != nil {
		log.Fatalf("prioserver: constructing server B: %v", err)
	}

	secret, err := sA.SecretForPacket(0)
	if err != nil {
		log.Fatalf("prioserver: deriving shared secret: %v", err)
	}

	vA := server.NewVerifier(sA)
	if err := vA.SetData(pA, secret); err != nil {
		log.Fatalf("prioserver: server A SetData: %v", err)
	}
	r1A, err := vA.Round1()
	if err != nil {
		log.Fatalf("prioserver: server A Round1: %v", err)
	}
	log.Printf("prioserver: server A computed round 1 message, sending to peer")

	// The peer server runs the same steps on pB and exchanges round 1
	// messages with us; we model that exchange in-process.
	vB := server.NewVerifier(sB)
	if err := vB.SetData(pB, secret); err != nil {
		log.Fatalf("prioserver: server B SetData: %v", err)
	}
	r1B, err := vB.Round1()
	if err != nil {
		log.Fatalf("prioserver: server B Round1: %v", err)
	}

	r2A, err := vA.Round2(r1A, r1B)
	if err != nil {
		log.Fatalf("prioserver: server A Round2: %v", err)
	}
	r2B, err := vB.Round2(r1A, r1B)
	if err != nil {
		log.Fatalf("prioserver: server B Round2: %v", err)
	}

	valid, err := vA.Decide(r2A, r2B)
	if err != nil {
		log.Fatalf("prioserver: deciding validity: %v", err)
	}
	log.Printf("prioserver: submission valid = %v", valid)

	if valid {
		if err := sA.Aggregate(vA); err != nil {
			log.Fatalf("prioserver: aggregating: %v", err)
		}
		log.Printf("prioserver: server A folded the submission into its running share")
	}
}

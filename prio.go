/*
Package prio implements the cryptographic core of the Prio protocol for
privacy-preserving aggregation of Boolean statistics. The library features:

  - A pure Go implementation of the two-server secret-sharing construction:
    each client splits its Boolean vector into one additive share per server,
    so neither server alone learns anything about an individual submission.
  - A secret-shared non-interactive proof (SNIP) attached to every
    submission, letting the two servers jointly verify that each shared
    entry is 0 or 1 before aggregating it, in two rounds of communication.
  - An FFT-based polynomial layer over an 87-bit prime field for encoding
    and checking the proofs, and a PRG compression scheme that shrinks one
    server's packet to a single 16-byte seed.

Prio assumes two non-colluding servers; as long as at least one of them is
honest, individual client inputs stay private while the servers still
recover the exact coordinate-wise sums over the accepted population.
*/
package prio

package token

import (
	"sort"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// Checkpoint returns a deterministic MiMC commitment over the sorted
// balance table and the total supply. Two ledgers with the same balances
// and supply produce the same commitment regardless of the order the
// entries were created in. Inputs are reduced into the bn254 scalar field.
func (l *Ledger) Checkpoint() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()

	addrs := make([]Address, 0, len(l.balances))
	for a := range l.balances {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	h := mimc.NewMiMC()
	var e fr.Element
	for _, a := range addrs {
		e.SetBytes([]byte(a))
		buf := e.Bytes()
		h.Write(buf[:])

		e.SetBytes(l.balances[a].Bytes())
		buf = e.Bytes()
		h.Write(buf[:])
	}

	e.SetBytes(l.totalSupply.Bytes())
	buf := e.Bytes()
	h.Write(buf[:])

	return h.Sum(nil)
}

package onchain

// caip2ReferenceLength is the maximum CAIP-2 reference length; Solana chain
// ids use that many leading characters of the genesis hash.
const caip2ReferenceLength = 32

// Genesis hashes of the public clusters.
var genesisHashes = map[string]string{
	"mainnet": "5eykt4UsFv8P8NJdTREpY1vzqKqZKvdpKuc147dw2N9d",
	"devnet":  "EtWTRABZaYq6iMfeYKouRu166VU2xqa1wcaWoxPkrZBG",
	"testnet": "4uhcVJyU9pJkvQyS88uRDiswHXSCkY3zQawwpjk2NsNY",
}

// BlockchainID returns the CAIP-2 chain id for network, or "" when the
// network is not a public cluster.
func BlockchainID(network string) string {
	hash, ok := genesisHashes[network]
	if !ok {
		return ""
	}
	if len(hash) > caip2ReferenceLength {
		hash = hash[:caip2ReferenceLength]
	}
	return "solana:" + hash
}

package account

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

const accountPrefix = "/accounts/"

// pathFor returns the store path for addr: "/accounts/<hex, no 0x>".
func pathFor(addr common.Address) string {
	return fmt.Sprintf("%s%x", accountPrefix, addr)
}

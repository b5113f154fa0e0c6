package memory

import "github.com/iho/bankledger/internal/usecase"

var (
	_ usecase.CustomerRepository     = (*CustomerRepository)(nil)
	_ usecase.AccountRepository      = (*AccountRepository)(nil)
	_ usecase.AccountNumberGenerator = (*AccountSequence)(nil)
	_ usecase.IDGenerator            = (*ULIDGenerator)(nil)
	_ usecase.OutboxRepository       = (*OutboxRepository)(nil)
	_ usecase.OutboxRepository       = (*NullOutboxRepository)(nil)
)

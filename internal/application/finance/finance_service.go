package finance

import (
	"context"

	appidentity "github.com/dukkan/backend/internal/application/identity"
	"github.com/dukkan/backend/internal/domain/finance"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FinanceService manages accounts, the movement ledger and payments.
type FinanceService struct {
	scope        TransactionScope
	accountRepo  finance.AccountRepository
	movementRepo finance.AccountMovementRepository
	paymentRepo  finance.PaymentRepository
	capability   *appidentity.CapabilityService
	logger       *zap.Logger
}

// NewFinanceService creates a FinanceService
func NewFinanceService(
	scope TransactionScope,
	accountRepo finance.AccountRepository,
	movementRepo finance.AccountMovementRepository,
	paymentRepo finance.PaymentRepository,
	capability *appidentity.CapabilityService,
	logger *zap.Logger,
) *FinanceService {
	return &FinanceService{
		scope:        scope,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		paymentRepo:  paymentRepo,
		capability:   capability,
		logger:       logger,
	}
}

// CreateAccount creates an account, subject to the tenant's plan limit
func (s *FinanceService) CreateAccount(ctx context.Context, tenantID, userID uuid.UUID, input CreateAccountInput) (*AccountDTO, error) {
	count, err := s.accountRepo.CountForTenant(ctx, tenantID, shared.Filter{})
	if err != nil {
		return nil, err
	}
	if err := s.capability.EnsureCanCreate(ctx, tenantID, appidentity.ResourceAccounts, count); err != nil {
		return nil, err
	}

	account, err := finance.NewAccount(tenantID, input.Name, input.Type, input.Currency)
	if err != nil {
		return nil, err
	}
	account.SetCreatedBy(userID)

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("account created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("account", account.Name),
	)
	return ToAccountDTO(account), nil
}

// RenameAccount changes an account's name
func (s *FinanceService) RenameAccount(ctx context.Context, tenantID, accountID uuid.UUID, name string) (*AccountDTO, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.ErrNotFound
	}
	loadedVersion := account.Version
	if err := account.Rename(name); err != nil {
		return nil, err
	}
	if err := s.accountRepo.SaveWithLock(ctx, account, loadedVersion); err != nil {
		return nil, err
	}
	return ToAccountDTO(account), nil
}

// DeactivateAccount archives an account; the balance must be zero
func (s *FinanceService) DeactivateAccount(ctx context.Context, tenantID, accountID uuid.UUID) error {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return shared.ErrNotFound
	}
	loadedVersion := account.Version
	if err := account.Deactivate(); err != nil {
		return err
	}
	return s.accountRepo.SaveWithLock(ctx, account, loadedVersion)
}

// Deposit adds money to an account with a manual ledger entry
func (s *FinanceService) Deposit(ctx context.Context, tenantID, accountID uuid.UUID, input MoneyInput) (*AccountDTO, error) {
	var account *finance.Account
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		account, err = s.moveMoney(ctx, repos, tenantID, accountID, input, finance.MovementDirectionIn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToAccountDTO(account), nil
}

// Withdraw removes money from an account with a manual ledger entry.
// The balance cannot go negative.
func (s *FinanceService) Withdraw(ctx context.Context, tenantID, accountID uuid.UUID, input MoneyInput) (*AccountDTO, error) {
	var account *finance.Account
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		account, err = s.moveMoney(ctx, repos, tenantID, accountID, input, finance.MovementDirectionOut)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToAccountDTO(account), nil
}

func (s *FinanceService) moveMoney(ctx context.Context, repos TransactionalRepositories, tenantID, accountID uuid.UUID, input MoneyInput, direction finance.MovementDirection) (*finance.Account, error) {
	account, err := repos.Accounts().FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.ErrNotFound
	}

	loadedVersion := account.Version
	var movement *finance.AccountMovement
	if direction == finance.MovementDirectionIn {
		movement, err = account.Credit(input.Amount, finance.MovementSourceManual, nil, input.Description)
	} else {
		movement, err = account.Debit(input.Amount, finance.MovementSourceManual, nil, input.Description)
	}
	if err != nil {
		return nil, err
	}

	if err := repos.Accounts().SaveWithLock(ctx, account, loadedVersion); err != nil {
		return nil, err
	}
	if err := repos.AccountMovements().Create(ctx, movement); err != nil {
		return nil, err
	}
	return account, nil
}

// Transfer moves money between two accounts of the same tenant. The debit and
// the credit commit together or not at all.
func (s *FinanceService) Transfer(ctx context.Context, tenantID uuid.UUID, input TransferInput) error {
	if input.FromAccountID == input.ToAccountID {
		return shared.NewDomainError("INVALID_TRANSFER", "Cannot transfer to the same account")
	}

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		from, err := repos.Accounts().FindByIDForTenant(ctx, tenantID, input.FromAccountID)
		if err != nil {
			return err
		}
		if from == nil {
			return shared.ErrNotFound
		}
		to, err := repos.Accounts().FindByIDForTenant(ctx, tenantID, input.ToAccountID)
		if err != nil {
			return err
		}
		if to == nil {
			return shared.ErrNotFound
		}

		transferID := uuid.New()
		fromVersion := from.Version
		out, err := from.Debit(input.Amount, finance.MovementSourceTransfer, &transferID, input.Description)
		if err != nil {
			return err
		}
		toVersion := to.Version
		in, err := to.Credit(input.Amount, finance.MovementSourceTransfer, &transferID, input.Description)
		if err != nil {
			return err
		}

		if err := repos.Accounts().SaveWithLock(ctx, from, fromVersion); err != nil {
			return err
		}
		if err := repos.Accounts().SaveWithLock(ctx, to, toVersion); err != nil {
			return err
		}
		if err := repos.AccountMovements().Create(ctx, out); err != nil {
			return err
		}
		return repos.AccountMovements().Create(ctx, in)
	})
	if err != nil {
		return err
	}

	s.logger.Info("transfer completed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("from", input.FromAccountID.String()),
		zap.String("to", input.ToAccountID.String()),
		zap.String("amount", input.Amount.String()),
	)
	return nil
}

// RecordPayment records money received into an account. When the payment is
// tied to a customer it reduces the customer's open balance.
func (s *FinanceService) RecordPayment(ctx context.Context, tenantID, userID uuid.UUID, input RecordPaymentInput) (*PaymentDTO, error) {
	var created *finance.Payment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		account, err := repos.Accounts().FindByIDForTenant(ctx, tenantID, input.AccountID)
		if err != nil {
			return err
		}
		if account == nil {
			return shared.ErrNotFound
		}

		payment, err := finance.NewPayment(tenantID, account.ID, input.SaleID, input.CustomerID,
			input.Method, input.Amount, input.Note)
		if err != nil {
			return err
		}
		payment.SetCreatedBy(userID)

		loadedVersion := account.Version
		movement, err := account.Credit(input.Amount, finance.MovementSourcePayment, &payment.ID, input.Note)
		if err != nil {
			return err
		}
		if err := repos.Accounts().SaveWithLock(ctx, account, loadedVersion); err != nil {
			return err
		}
		if err := repos.AccountMovements().Create(ctx, movement); err != nil {
			return err
		}
		if err := repos.Payments().Save(ctx, payment); err != nil {
			return err
		}

		if input.CustomerID != nil {
			customer, err := repos.Customers().FindByIDForTenant(ctx, tenantID, *input.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return shared.ErrNotFound
			}
			if err := customer.ReduceReceivable(input.Amount); err != nil {
				return err
			}
			if err := repos.Customers().Save(ctx, customer); err != nil {
				return err
			}
		}

		created = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("amount", created.Amount.String()),
	)
	return ToPaymentDTO(created), nil
}

// GetAccount returns an account by ID
func (s *FinanceService) GetAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountDTO, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.ErrNotFound
	}
	return ToAccountDTO(account), nil
}

// ListAccounts returns a page of accounts
func (s *FinanceService) ListAccounts(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[AccountDTO], error) {
	items, err := s.accountRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.accountRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]AccountDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToAccountDTO(&items[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListAccountMovements returns a page of ledger rows for one account
func (s *FinanceService) ListAccountMovements(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) (*shared.Paginated[AccountMovementDTO], error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.ErrNotFound
	}

	items, err := s.movementRepo.FindByAccountForTenant(ctx, tenantID, accountID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.movementRepo.CountByAccountForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	dtos := make([]AccountMovementDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToAccountMovementDTO(&items[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListPayments returns a page of payments
func (s *FinanceService) ListPayments(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[PaymentDTO], error) {
	items, err := s.paymentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.paymentRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]PaymentDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToPaymentDTO(&items[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

package domain

// FindCustomer returns the first customer with taxID, or nil.
func FindCustomer(taxID string, customers []*Customer) *Customer {
	for _, c := range customers {
		if c.TaxID == taxID {
			return c
		}
	}
	return nil
}

// FindAccount returns the first account with number, or nil.
func FindAccount(number int64, accounts []*Account) *Account {
	for _, a := range accounts {
		if a.Number == number {
			return a
		}
	}
	return nil
}

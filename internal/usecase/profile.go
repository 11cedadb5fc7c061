package usecase

import (
	"net/url"
	"strconv"

	"github.com/billspring/mandate-service/internal/domain/model"
)

// customerProfile builds the customer identity block Twikey expects on
// invite and paylink payloads. Persons get a split first/last name,
// companies the company name plus VAT number.
func customerProfile(customer *model.Customer) url.Values {
	payload := url.Values{}
	if customer == nil {
		return payload
	}

	payload.Set("customerNumber", strconv.FormatInt(customer.ID, 10))
	payload.Set("email", deref(customer.Email))
	payload.Set("l", deref(customer.Language))
	payload.Set("address", deref(customer.Street))
	payload.Set("city", deref(customer.City))
	payload.Set("zip", deref(customer.Zip))
	payload.Set("country", deref(customer.CountryCode))

	if customer.CompanyType == model.CompanyTypeCompany {
		payload.Set("companyName", customer.Name)
		payload.Set("vatno", deref(customer.VAT))
		return payload
	}

	firstName, lastName := customer.SplitName()
	payload.Set("firstname", firstName)
	payload.Set("lastname", lastName)
	return payload
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

package auth

// # Field Identifiers
//
// JSON field names shared between validation and response shaping.

const (
	FieldEmail           = "email"
	FieldNickname        = "nickname"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldCode            = "code"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldBankAccount     = "bank_account"
	FieldBillingAddress  = "billing_address"
	FieldNationalID      = "national_id"
)

// # Input Limits

const (
	// NicknameMinLength and NicknameMaxLength bound the public handle.
	NicknameMinLength = 3
	NicknameMaxLength = 50

	// PasswordMinLength and PasswordMaxLength bound raw password input.
	// The upper bound exists because bcrypt truncates past 72 bytes.
	PasswordMinLength = 8
	PasswordMaxLength = 128

	// BankAccountMinLength and BankAccountMaxLength cover IBAN-style values.
	BankAccountMinLength = 8
	BankAccountMaxLength = 34

	// BillingAddressMinLength and BillingAddressMaxLength bound the address field.
	BillingAddressMinLength = 5
	BillingAddressMaxLength = 255

	// NameMaxLength bounds first and last names.
	NameMaxLength = 100

	// NationalIDMaxLength bounds the optional national identity number.
	NationalIDMaxLength = 20

	// CodeMaxLength bounds submitted one-time codes. Generated codes are 6
	// digits; the looser bound keeps the payload check independent of the
	// generator.
	CodeMaxLength = 32
)

// # Provider Tags

const (
	// ProviderStandard marks accounts created through the password flow.
	ProviderStandard = "standard"
)

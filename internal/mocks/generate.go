package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/registry --output domain/registry --outpkg registrymock --filename store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Ledger --dir ../domain/failure --output domain/failure --outpkg failuremock --filename ledger_mock.go

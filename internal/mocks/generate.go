package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/normalization --output domain/normalization --outpkg normalizationmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/rawdata --output domain/rawdata --outpkg rawdatamock --filename repository_mock.go

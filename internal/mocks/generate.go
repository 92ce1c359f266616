package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Feed --dir ../domain/candidate --output domain/candidate --outpkg candidatemock --filename feed_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/session --output domain/session --outpkg sessionmock --filename repository_mock.go

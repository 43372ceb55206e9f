package mocks

import "github.com/stretchr/testify/mock"

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// NewUserStore creates a UserStore mock that asserts its expectations on cleanup.
func NewUserStore(t testingT) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewPostStore creates a PostStore mock that asserts its expectations on cleanup.
func NewPostStore(t testingT) *PostStore {
	m := &PostStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewDeliveryStore creates a DeliveryStore mock that asserts its expectations on cleanup.
func NewDeliveryStore(t testingT) *DeliveryStore {
	m := &DeliveryStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewRunStore creates a RunStore mock that asserts its expectations on cleanup.
func NewRunStore(t testingT) *RunStore {
	m := &RunStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewEmailSender creates a EmailSender mock that asserts its expectations on cleanup.
func NewEmailSender(t testingT) *EmailSender {
	m := &EmailSender{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewStorage creates a Storage mock that asserts its expectations on cleanup.
func NewStorage(t testingT) *Storage {
	m := &Storage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewTokenManager creates a TokenManager mock that asserts its expectations on cleanup.
func NewTokenManager(t testingT) *TokenManager {
	m := &TokenManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewContextManager creates a ContextManager mock that asserts its expectations on cleanup.
func NewContextManager(t testingT) *ContextManager {
	m := &ContextManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewSecurityLayer creates a SecurityLayer mock that asserts its expectations on cleanup.
func NewSecurityLayer(t testingT) *SecurityLayer {
	m := &SecurityLayer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewTokenService creates a TokenService mock that asserts its expectations on cleanup.
func NewTokenService(t testingT) *TokenService {
	m := &TokenService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewArtistService creates a ArtistService mock that asserts its expectations on cleanup.
func NewArtistService(t testingT) *ArtistService {
	m := &ArtistService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewPostService creates a PostService mock that asserts its expectations on cleanup.
func NewPostService(t testingT) *PostService {
	m := &PostService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

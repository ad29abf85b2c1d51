/*
Copyright 2025 Piotr Janik.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package session

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cogniteo/cognito-auth/pkg/userpool"
)

func newTestSession() *userpool.Session {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &userpool.Session{
		Username:     "test@example.com",
		Sub:          "test-sub-123",
		Email:        "test@example.com",
		IDToken:      "id-token",
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "Bearer",
		IssuedAt:     issued,
		ExpiresAt:    issued.Add(time.Hour),
	}
}

var _ = Describe("MemoryStore", func() {
	var (
		ctx   context.Context
		store *MemoryStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = NewMemoryStore()
	})

	It("is empty when created", func() {
		s, err := store.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(BeNil())
	})

	It("returns the saved session", func() {
		Expect(store.Save(ctx, newTestSession())).To(Succeed())

		s, err := store.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(newTestSession()))
	})

	It("does not share the saved value with callers", func() {
		original := newTestSession()
		Expect(store.Save(ctx, original)).To(Succeed())
		original.AccessToken = "changed"

		s, err := store.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.AccessToken).To(Equal("access-token"))
	})

	It("rejects a nil session", func() {
		Expect(store.Save(ctx, nil)).NotTo(Succeed())
	})

	It("forgets the session on clear", func() {
		Expect(store.Save(ctx, newTestSession())).To(Succeed())
		Expect(store.Clear(ctx)).To(Succeed())

		s, err := store.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(BeNil())
	})
})

var _ = Describe("FileStore", func() {
	var (
		ctx   context.Context
		path  string
		store *FileStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir, err := os.MkdirTemp("", "session-store")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		path = filepath.Join(dir, "nested", "session.yaml")
		store, err = NewFileStore(path)
		Expect(err).NotTo(HaveOccurred())
	})

	It("requires a path", func() {
		_, err := NewFileStore("")
		Expect(err).To(HaveOccurred())
	})

	It("treats a missing file as an empty store", func() {
		s, err := store.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(BeNil())
	})

	It("round-trips a session through the file", func() {
		Expect(store.Save(ctx, newTestSession())).To(Succeed())

		reopened, err := NewFileStore(path)
		Expect(err).NotTo(HaveOccurred())

		s, err := reopened.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Username).To(Equal("test@example.com"))
		Expect(s.RefreshToken).To(Equal("refresh-token"))
		Expect(s.ExpiresAt.Equal(newTestSession().ExpiresAt)).To(BeTrue())
	})

	It("writes the file readable only by its owner", func() {
		Expect(store.Save(ctx, newTestSession())).To(Succeed())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
	})

	It("removes the file on clear", func() {
		Expect(store.Save(ctx, newTestSession())).To(Succeed())
		Expect(store.Clear(ctx)).To(Succeed())

		_, err := os.Stat(path)
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("clears an already empty store", func() {
		Expect(store.Clear(ctx)).To(Succeed())
	})

	It("fails on a corrupt file", func() {
		Expect(os.MkdirAll(filepath.Dir(path), 0o700)).To(Succeed())
		Expect(os.WriteFile(path, []byte("username: [unterminated"), 0o600)).To(Succeed())

		_, err := store.Load(ctx)
		Expect(err).To(MatchError(ContainSubstring("failed to decode session file")))
	})
})

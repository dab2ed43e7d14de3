package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("HookableBase", func() {
	var (
		mockCtrl *gomock.Controller
		hookable *HookableBase
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hookable = NewHookableBase()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should invoke hooks in registration order", func() {
		first := NewMockHook(mockCtrl)
		second := NewMockHook(mockCtrl)
		pos := &HookPos{Name: "Test"}
		ctx := HookCtx{Domain: hookable, Pos: pos, Item: 42}

		gomock.InOrder(
			first.EXPECT().Func(ctx),
			second.EXPECT().Func(ctx),
		)

		hookable.AcceptHook(first)
		hookable.AcceptHook(second)
		hookable.InvokeHook(ctx)

		Expect(hookable.NumHooks()).To(Equal(2))
		Expect(hookable.Hooks()).To(HaveLen(2))
	})

	It("should panic on duplicated hooks", func() {
		hook := NewMockHook(mockCtrl)
		hookable.AcceptHook(hook)

		Expect(func() { hookable.AcceptHook(hook) }).To(Panic())
	})

	It("should do nothing without hooks", func() {
		Expect(func() {
			hookable.InvokeHook(HookCtx{Pos: &HookPos{Name: "Empty"}})
		}).NotTo(Panic())
	})
})

var _ = Describe("Fire", func() {
	var (
		mockCtrl *gomock.Controller
		hookable *HookableBase
		pos      *HookPos
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hookable = NewHookableBase()
		pos = &HookPos{Name: "Fire"}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should deliver the site to every hook", func() {
		hook := NewMockHook(mockCtrl)
		hook.EXPECT().Func(HookCtx{
			Domain: hookable,
			Pos:    pos,
			Item:   "item",
			Detail: 7,
		})

		hookable.AcceptHook(hook)
		Fire(hookable, pos, "item", 7)
	})

	It("should run function hooks", func() {
		var got []HookCtx

		record := HookFunc(func(ctx HookCtx) { got = append(got, ctx) })
		hookable.AcceptHook(&record)

		Fire(hookable, pos, 1, nil)
		Fire(hookable, pos, 2, nil)

		Expect(got).To(HaveLen(2))
		Expect(got[0].Item).To(Equal(1))
		Expect(got[1].Item).To(Equal(2))
		Expect(got[1].Domain).To(BeIdenticalTo(hookable))
	})

	It("should not invoke anything without hooks", func() {
		domain := NewMockHookable(mockCtrl)
		domain.EXPECT().NumHooks().Return(0)

		Fire(domain, pos, 1, nil)
	})
})

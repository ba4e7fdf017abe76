package moonspec

import (
	"fmt"
)

// Go methods can't carry their own type parameters, so the typed arity
// façade is a family of free functions taking *Setup explicitly (spec
// §6.2). GivenN/WhenN/ThenN/StepN wrap Setup.Given/When/Then/Step,
// converting the N leading matched arguments to the requested Go types
// before calling fn.

func fromArg[T any](a StepValue) (T, error) {
	var zero T

	if native, ok := a.Native().(T); ok {
		return native, nil
	}

	return zero, fmt.Errorf("moonspec: cannot convert %s argument to %T", a.Kind, zero)
}

func Given0(s *Setup, pattern string, fn func(t StepTest, ctx *Ctx) error) {
	s.Given(pattern, StepHandler(fn))
}

func When0(s *Setup, pattern string, fn func(t StepTest, ctx *Ctx) error) {
	s.When(pattern, StepHandler(fn))
}

func Then0(s *Setup, pattern string, fn func(t StepTest, ctx *Ctx) error) {
	s.Then(pattern, StepHandler(fn))
}

func Step0(s *Setup, pattern string, fn func(t StepTest, ctx *Ctx) error) {
	s.Step(pattern, StepHandler(fn))
}

func Given1[A any](s *Setup, pattern string, fn func(t StepTest, ctx *Ctx, a A) error) {
	s.Given(pattern, wrap1[A](fn))
}

func When1[A any](s *Setup, pattern string, fn func(t StepTest, ctx *Ctx, a A) error) {
	s.When(pattern, wrap1[A](fn))
}

func Then1[A any](s *Setup, pattern string, fn func(t StepTest, ctx *Ctx, a A) error) {
	s.Then(pattern, wrap1[A](fn))
}

func Step1[A any](s *Setup, pattern string, fn func(t StepTest, ctx *Ctx, a A) error) {
	s.Step(pattern, wrap1[A](fn))
}

func Given2[A, B any](s *Setup, pattern string, fn func(t StepTest, ctx *Ctx, a A, b B) error) {
	s.Given(pattern, wrap2[A, B](fn))
}

func When2[A, B any](s *Setup, pattern string, fn func(t StepTest, ctx *Ctx, a A, b B) error) {
	s.When(pattern, wrap2[A, B](fn))
}

func Then2[A, B any](s *Setup, pattern string, fn func(t StepTest, ctx *Ctx, a A, b B) error) {
	s.Then(pattern, wrap2[A, B](fn))
}

func Step2[A, B any](s *Setup, pattern string, fn func(t StepTest, ctx *Ctx, a A, b B) error) {
	s.Step(pattern, wrap2[A, B](fn))
}

func Given3[A, B, C any](s *Setup, pattern string, fn func(t StepTest, ctx *Ctx, a A, b B, c C) error) {
	s.Given(pattern, wrap3[A, B, C](fn))
}

func When3[A, B, C any](s *Setup, pattern string, fn func(t StepTest, ctx *Ctx, a A, b B, c C) error) {
	s.When(pattern, wrap3[A, B, C](fn))
}

func Then3[A, B, C any](s *Setup, pattern string, fn func(t StepTest, ctx *Ctx, a A, b B, c C) error) {
	s.Then(pattern, wrap3[A, B, C](fn))
}

func Step3[A, B, C any](s *Setup, pattern string, fn func(t StepTest, ctx *Ctx, a A, b B, c C) error) {
	s.Step(pattern, wrap3[A, B, C](fn))
}

func wrap1[A any](fn func(t StepTest, ctx *Ctx, a A) error) StepHandler {
	return func(t StepTest, ctx *Ctx) error {
		a, err := fromArg[A](ctx.Arg(0))
		if err != nil {
			return err
		}

		return fn(t, ctx, a)
	}
}

func wrap2[A, B any](fn func(t StepTest, ctx *Ctx, a A, b B) error) StepHandler {
	return func(t StepTest, ctx *Ctx) error {
		a, err := fromArg[A](ctx.Arg(0))
		if err != nil {
			return err
		}

		b, err := fromArg[B](ctx.Arg(1))
		if err != nil {
			return err
		}

		return fn(t, ctx, a, b)
	}
}

func wrap3[A, B, C any](fn func(t StepTest, ctx *Ctx, a A, b B, c C) error) StepHandler {
	return func(t StepTest, ctx *Ctx) error {
		a, err := fromArg[A](ctx.Arg(0))
		if err != nil {
			return err
		}

		b, err := fromArg[B](ctx.Arg(1))
		if err != nil {
			return err
		}

		c, err := fromArg[C](ctx.Arg(2))
		if err != nil {
			return err
		}

		return fn(t, ctx, a, b, c)
	}
}

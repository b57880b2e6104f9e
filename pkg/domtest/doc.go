// Package domtest provides testing helpers for code that mutates Presto
// documents.
//
// The assertion helpers reduce boilerplate when checking element state:
//
//	el := doc.QuerySelector("#save")
//	domtest.ExpectClass(t, el, "optimistic")
//	domtest.ExpectText(t, el, "Saving...")
//
// Scheduler is a manual one-shot scheduler so engine tests can fire
// scheduled reverts deterministically instead of sleeping:
//
//	sched := &domtest.Scheduler{}
//	engine := optimistic.NewEngine(doc, optimistic.EngineConfig{Schedule: sched.Schedule})
//	...
//	sched.Fire()
package domtest

// Package react drives the think, act, observe loop of a tool-using model.
//
// A [Toolkit] asks the completion backend for the next step, parses it into
// a subtask, runs the named tool and replays the whole trace into the next
// request. The loop ends when the model answers, when it stops following the
// calling format (the raw completion becomes the output) or when the subtask
// budget set with [WithMaxSubtasks] is used up.
//
// A [Single] controller makes one request against a single tool and runs the
// resulting action once.
//
//	toolkit, err := react.NewToolkit(provider,
//	    react.WithTools(calculator.New()),
//	    react.WithMaxSubtasks(10),
//	)
//	if err != nil {
//	    return err
//	}
//	out, err := toolkit.Execute(ctx, "What is 6 times 7?")
package react

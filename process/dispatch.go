package process

import (
	"fmt"

	goerrors "github.com/kbukum/pipekit/errors"
)

type handler func(p *Process, args []any) (any, error)

var dispatch = map[Op]handler{
	OpEOF: func(p *Process, args []any) (any, error) {
		return p.EOF()
	},
	OpReadChar: func(p *Process, args []any) (any, error) {
		return p.ReadChar()
	},
	OpReadRecord: func(p *Process, args []any) (any, error) {
		return p.ReadRecord()
	},
	OpReadLine: func(p *Process, args []any) (any, error) {
		return p.ReadLine()
	},
	OpRead: func(p *Process, args []any) (any, error) {
		if len(args) == 1 {
			if b, ok := args[0].([]byte); ok {
				return p.Read(b)
			}
		}
		n, err := intArg(OpRead, args, 0)
		if err != nil {
			return nil, err
		}
		return p.ReadN(n)
	},
	OpScan: func(p *Process, args []any) (any, error) {
		format, err := stringArg(OpScan, args, 0)
		if err != nil {
			return nil, err
		}
		return p.Scan(format, args[1:]...)
	},
	OpStat: func(p *Process, args []any) (any, error) {
		return p.Stat()
	},
	OpReadAll: func(p *Process, args []any) (any, error) {
		return p.ReadAll()
	},
	OpReadLineLimit: func(p *Process, args []any) (any, error) {
		max, err := intArg(OpReadLineLimit, args, 0)
		if err != nil {
			return nil, err
		}
		delim := ""
		if len(args) > 1 {
			if delim, err = stringArg(OpReadLineLimit, args, 1); err != nil {
				return nil, err
			}
		}
		return p.ReadLineLimit(max, delim)
	},
	OpMetadata: func(p *Process, args []any) (any, error) {
		return p.Metadata()
	},
	OpWriteRecord: func(p *Process, args []any) (any, error) {
		if len(args) == 1 {
			if fields, ok := args[0].([]string); ok {
				return p.WriteRecord(fields)
			}
		}
		fields := make([]string, len(args))
		for i := range args {
			s, err := stringArg(OpWriteRecord, args, i)
			if err != nil {
				return nil, err
			}
			fields[i] = s
		}
		return p.WriteRecord(fields)
	},
	OpWriteString: func(p *Process, args []any) (any, error) {
		s, err := stringArg(OpWriteString, args, 0)
		if err != nil {
			return nil, err
		}
		return p.WriteString(s)
	},
	OpWrite: func(p *Process, args []any) (any, error) {
		if len(args) == 1 {
			switch v := args[0].(type) {
			case []byte:
				return p.Write(v)
			case string:
				return p.Write([]byte(v))
			}
		}
		return nil, goerrors.InvalidArgument(OpWrite.String(), "want a single []byte or string")
	},
}

// Call forwards the operation called name to the target stream. Names the
// shape does not forward fail with an Unsupported error naming the operation.
func (p *Process) Call(name string, args ...any) (any, error) {
	op, ok := ParseOp(name)
	if !ok || !p.shape.Ops.Has(op) {
		return nil, goerrors.Unsupported(name)
	}
	return dispatch[op](p, args)
}

func intArg(op Op, args []any, i int) (int, error) {
	if i >= len(args) {
		return 0, goerrors.InvalidArgument(op.String(), fmt.Sprintf("missing argument %d", i))
	}
	switch v := args[i].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	}
	return 0, goerrors.InvalidArgument(op.String(), fmt.Sprintf("argument %d is %T, want int", i, args[i]))
}

func stringArg(op Op, args []any, i int) (string, error) {
	if i >= len(args) {
		return "", goerrors.InvalidArgument(op.String(), fmt.Sprintf("missing argument %d", i))
	}
	s, ok := args[i].(string)
	if !ok {
		return "", goerrors.InvalidArgument(op.String(), fmt.Sprintf("argument %d is %T, want string", i, args[i]))
	}
	return s, nil
}

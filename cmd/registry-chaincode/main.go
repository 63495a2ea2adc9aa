// Command registry-chaincode runs the doctor/patient registry as Fabric
// chaincode.
package main

import (
	"fmt"
	"os"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"

	"github.com/ApolloMedTech/shdms/chaincode/registry"
)

func main() {
	chaincode, err := contractapi.NewChaincode(&registry.Contract{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating registry chaincode: %v\n", err)
		os.Exit(1)
	}

	chaincode.Info.Title = "registry"
	chaincode.Info.Version = "1.0.0"

	if err := chaincode.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "error starting registry chaincode: %v\n", err)
		os.Exit(1)
	}
}
